package relaypager

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var _schemaCache sync.Map

// ConnectionType names the connection wrapper of a node type and the edge
// type inside it.
type ConnectionType struct {
	Name     string
	EdgeName string
	// NodeName is the node type the connection is designated for.
	NodeName string
}

// NewConnectionType returns the conventional "<Node>Connection" and
// "<Node>Edge" names for nodeName.
func NewConnectionType(nodeName string) *ConnectionType {
	return &ConnectionType{
		Name:     nodeName + "Connection",
		EdgeName: nodeName + "Edge",
		NodeName: nodeName,
	}
}

// ObjectType is a GraphQL object type backed by the GORM model T.
type ObjectType[T any] struct {
	name       string
	connection *ConnectionType
	manager    Scope
	accessors  map[string]Scope
	ordering   Orderings
	columns    ColumnMapping
}

// NewObjectType declares an object type backed by the model T.
func NewObjectType[T any](name string) *ObjectType[T] {
	return &ObjectType[T]{name: name}
}

// WithConnection declares the conventional connection for the type.
func (o *ObjectType[T]) WithConnection() *ObjectType[T] {
	return o.WithConnectionType(NewConnectionType(o.GetName()))
}

// WithConnectionType declares an explicit connection for the type.
func (o *ObjectType[T]) WithConnectionType(connection *ConnectionType) *ObjectType[T] {
	if o == nil {
		o = new(ObjectType[T])
	}

	o.connection = connection

	return o
}

// WithManager sets the scope of the default manager, e.g. visibility filters
// every query of this type must respect.
func (o *ObjectType[T]) WithManager(scope Scope) *ObjectType[T] {
	if o == nil {
		o = new(ObjectType[T])
	}

	o.manager = scope

	return o
}

// WithAccessor registers an alternate manager, selected by a field with On.
func (o *ObjectType[T]) WithAccessor(name string, scope Scope) *ObjectType[T] {
	if o == nil {
		o = new(ObjectType[T])
	}

	if o.accessors == nil {
		o.accessors = make(map[string]Scope)
	}
	o.accessors[name] = scope

	return o
}

// WithOrdering sets the ordering applied by every manager of the type.
func (o *ObjectType[T]) WithOrdering(orderBy ...OrderBy) *ObjectType[T] {
	if o == nil {
		o = new(ObjectType[T])
	}

	o.ordering = orderBy

	return o
}

// WithColumns sets the column aliases clients may order by.
func (o *ObjectType[T]) WithColumns(columns ColumnMapping) *ObjectType[T] {
	if o == nil {
		o = new(ObjectType[T])
	}

	o.columns = columns

	return o
}

func (o *ObjectType[T]) GetName() string {
	if o == nil {
		return ""
	}

	return o.name
}

func (o *ObjectType[T]) GetConnection() *ConnectionType {
	if o == nil {
		return nil
	}

	return o.connection
}

func (o *ObjectType[T]) GetOrdering() Orderings {
	if o == nil {
		return nil
	}

	return o.ordering
}

func (o *ObjectType[T]) GetColumns() ColumnMapping {
	if o == nil {
		return nil
	}

	return o.columns
}

// HasAccessor reports whether an alternate manager is registered under name.
func (o *ObjectType[T]) HasAccessor(name string) bool {
	if o == nil {
		return false
	}

	return lo.HasKey(o.accessors, name)
}

// Model returns the parsed GORM schema of T. It fails if T is not a model.
func (o *ObjectType[T]) Model() (*schema.Schema, error) {
	s, err := schema.Parse(new(T), &_schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("type '%s' is not backed by a model: %w", o.GetName(), err)
	}

	return s, nil
}

// Manager returns the default manager on db, or the accessor named on when on
// is not empty. The query is built anew on every call.
func (o *ObjectType[T]) Manager(db *gorm.DB, on string) (*Query[T], error) {
	scope := o.manager
	if on != "" {
		if !o.HasAccessor(on) {
			return nil, fmt.Errorf("type '%s' has no accessor '%s'", o.GetName(), on)
		}
		scope = o.accessors[on]
	}

	db = applyScopes(db.Model(new(T)), scope)
	if len(o.GetOrdering()) > 0 {
		db = o.GetOrdering().Apply(db)
	}

	return NewQuery[T](db), nil
}

// validate checks the type can back a connection.
func (o *ObjectType[T]) validate() error {
	if o == nil {
		return fmt.Errorf("%w: node type is nil", ErrImproperlyConfigured)
	}

	if _, err := o.Model(); err != nil {
		return fmt.Errorf("%w: connection fields only accept model-backed object types: %w", ErrImproperlyConfigured, err)
	}

	connection := o.GetConnection()
	if connection == nil || connection.Name == "" || connection.EdgeName == "" {
		return fmt.Errorf("%w: the type '%s' doesn't have a connection", ErrImproperlyConfigured, o.GetName())
	}
	if connection.NodeName != o.GetName() {
		return fmt.Errorf(
			"%w: connection '%s' is designated for '%s', not '%s'",
			ErrImproperlyConfigured, connection.Name, connection.NodeName, o.GetName(),
		)
	}

	if err := o.GetOrdering().validate(); len(o.GetOrdering()) > 0 && err != nil {
		return fmt.Errorf("%w: invalid ordering of '%s': %w", ErrImproperlyConfigured, o.GetName(), err)
	}

	return nil
}
