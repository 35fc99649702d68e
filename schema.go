package relaypager

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const _pageInfoTypeName = "PageInfo"

// LoadSchema parses and validates GraphQL SDL sources.
func LoadSchema(sources ...*ast.Source) (*ast.Schema, error) {
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("cannot load schema: %w", err)
	}

	return s, nil
}

// CheckConnectionSchema verifies that s declares the node object, its
// connection with `edges` and `pageInfo` fields, and an edge with `node` and
// `cursor` fields pointing at the node.
func CheckConnectionSchema(s *ast.Schema, nodeName string, connection *ConnectionType) error {
	if s == nil {
		return fmt.Errorf("schema is nil")
	}
	if connection == nil {
		return fmt.Errorf("type '%s' doesn't have a connection", nodeName)
	}

	if _, err := objectDefinition(s, nodeName); err != nil {
		return err
	}

	connectionDef, err := objectDefinition(s, connection.Name)
	if err != nil {
		return err
	}
	if err = checkField(connectionDef, "edges", connection.EdgeName, true); err != nil {
		return err
	}
	if err = checkField(connectionDef, "pageInfo", _pageInfoTypeName, false); err != nil {
		return err
	}

	edgeDef, err := objectDefinition(s, connection.EdgeName)
	if err != nil {
		return err
	}
	if err = checkField(edgeDef, "node", nodeName, false); err != nil {
		return err
	}

	return checkField(edgeDef, "cursor", "String", false)
}

func objectDefinition(s *ast.Schema, name string) (*ast.Definition, error) {
	def, ok := s.Types[name]
	if !ok {
		return nil, fmt.Errorf("type '%s' is not declared in the schema", name)
	}
	if def.Kind != ast.Object {
		return nil, fmt.Errorf("type '%s' is %s, not an object", name, def.Kind)
	}

	return def, nil
}

func checkField(def *ast.Definition, fieldName, typeName string, list bool) error {
	field := def.Fields.ForName(fieldName)
	if field == nil {
		return fmt.Errorf("type '%s' has no field '%s'", def.Name, fieldName)
	}

	fieldType := field.Type
	if list {
		if fieldType.Elem == nil {
			return fmt.Errorf("field '%s.%s' must be a list", def.Name, fieldName)
		}
		fieldType = fieldType.Elem
	}

	if fieldType.Name() != typeName {
		return fmt.Errorf("field '%s.%s' must be of type '%s', got '%s'", def.Name, fieldName, typeName, fieldType.Name())
	}

	return nil
}
