package loader

import "errors"

var (
	errNoParser = errors.New("not in dd/mm/yyyy hh:mm form and no natural language parser given")
	errNoMatch  = errors.New("no date found")
)
