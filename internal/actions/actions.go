// Package actions implements the Action Store: CRUD of classifiable intent
// definitions, keyed by unique name, with enable/disable toggling for the
// classifier's enabled-actions feed.
package actions

// ParamType enumerates the legal types for an Action parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamObject  ParamType = "object"
	ParamArray   ParamType = "array"
)

// Parameter describes one field of an Action's parameter schema.
type Parameter struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any
	Description string
}

// Action is a classifiable intent definition.
type Action struct {
	Name        string
	Description string
	Parameters  []Parameter
	Examples    []string
	Enabled     bool
}
