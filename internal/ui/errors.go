package ui

import "errors"

var (
	errBBoxPartial = errors.New("fill all four bbox fields or none")
	errBBoxNumeric = errors.New("bbox fields must be numbers")
)
