package utils

// Transform a normal writer into a writer that folds content lines longer
// than 75 octets, continuing each fold on a new line that starts with a
// space (RFC 5545, section 3.1). The written string must be one content
// line without its line break. Example:
//
//	var sb strings.Builder
//	writer := Split75wrapper(sb.WriteString)
//	writer("Hello,world!")
//
// Output: (let's assume it splits into 6-character lines)
//
//	`Hello,
//	 world!`
func Split75wrapper(writer func(string) (int, error)) func(string) (int, error) {
	return func(str string) (int, error) {
		// write right away if the string is short enough
		if len(str) <= 75 {
			return writer(str)
		}

		written := 0
		first := true
		for len(str) > 0 {
			limit := 75
			if !first {
				// the leading space counts towards the limit
				limit = 74
			}
			end := min(limit, len(str))
			// don't split a multi-byte character
			for end < len(str) && end > 0 && str[end]&0xC0 == 0x80 {
				end--
			}

			chunk := str[:end]
			if !first {
				chunk = "\r\n " + chunk
			}
			n, err := writer(chunk)
			written += n
			if err != nil {
				return written, err
			}
			str = str[end:]
			first = false
		}

		return written, nil
	}
}
