package templates

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrBuiltinTemplate  = errors.New("built-in templates are read-only")
	ErrInvalidName      = errors.New("template name is required")
)
