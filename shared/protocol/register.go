package protocol

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

var (
	syncOnce sync.Once
	syncErr  error
)

// registerSyncTypes registers every synced component with the necs type
// mapper under its wire ID. The mapper is process-wide, so this runs once.
// ID 1 is reserved by necs for NetworkId.
func registerSyncTypes() error {
	syncOnce.Do(func() {
		syncErr = errors.Join(
			esync.RegisterComponent(uint(netcomponents.IDNetPosition), netcomponents.NetPositionData{}, netcomponents.NetPosition),
			esync.RegisterComponent(uint(netcomponents.IDNetVelocity), netcomponents.NetVelocityData{}, netcomponents.NetVelocity),
			esync.RegisterComponent(uint(netcomponents.IDNetPlayerState), netcomponents.NetPlayerStateData{}, netcomponents.NetPlayerState),
			esync.RegisterComponent(uint(netcomponents.IDNetHealth), netcomponents.NetHealthData{}, netcomponents.NetHealth),
			esync.RegisterComponent(uint(netcomponents.IDNetStatusEffects), netcomponents.NetStatusEffectsData{}, netcomponents.NetStatusEffects),
			esync.RegisterComponent(uint(netcomponents.IDNetInventory), netcomponents.NetInventoryData{}, netcomponents.NetInventory),
		)
	})
	return syncErr
}

// ComponentHooks are optional callbacks run after a synced component value has
// been written to an entity. Embed NoHooks to implement only what you need.
type ComponentHooks interface {
	OnApplied(entry *donburi.Entry, created bool)
}

// NoHooks is the default no-op ComponentHooks.
type NoHooks struct{}

func (NoHooks) OnApplied(*donburi.Entry, bool) {}

// Binding ties a wire ComponentID to a donburi component type. The value
// codec is the necs type mapper; a Binding adds the client-side metadata.
type Binding interface {
	ID() netcomponents.ComponentID
	Type() donburi.IComponentType
	Decode(raw []byte) (any, error)
	// Write adds the component if missing and replaces its value.
	Write(entry *donburi.Entry, value any) error
	// Predicted reports whether the local player simulates this component
	// itself; server values for it are not written to the local player.
	Predicted() bool
	Hooks() ComponentHooks
}

type Option func(*bindingOptions)

type bindingOptions struct {
	predicted bool
	hooks     ComponentHooks
}

// Predicted marks the component as locally simulated for the local player.
func Predicted() Option {
	return func(o *bindingOptions) { o.predicted = true }
}

func WithHooks(h ComponentHooks) Option {
	return func(o *bindingOptions) { o.hooks = h }
}

type binding[T any] struct {
	id    netcomponents.ComponentID
	ctype *donburi.ComponentType[T]
	opts  bindingOptions
}

// Bind creates the Binding for component data type T.
func Bind[T any](id netcomponents.ComponentID, ctype *donburi.ComponentType[T], opts ...Option) Binding {
	b := &binding[T]{
		id:    id,
		ctype: ctype,
		opts:  bindingOptions{hooks: NoHooks{}},
	}
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

func (b *binding[T]) ID() netcomponents.ComponentID { return b.id }
func (b *binding[T]) Type() donburi.IComponentType  { return b.ctype }
func (b *binding[T]) Predicted() bool               { return b.opts.predicted }
func (b *binding[T]) Hooks() ComponentHooks         { return b.opts.hooks }

// Decode reads an esync component blob. The blob carries its own type ID,
// which must be the one this binding was registered under.
func (b *binding[T]) Decode(raw []byte) (any, error) {
	if err := registerSyncTypes(); err != nil {
		return nil, err
	}
	inst, err := esync.Mapper.Deserialize(raw)
	if err != nil {
		return nil, fmt.Errorf("component %d: %w", b.id, err)
	}
	v, ok := inst.(T)
	if !ok {
		return nil, fmt.Errorf("component %d: blob holds %T", b.id, inst)
	}
	return v, nil
}

func (b *binding[T]) Write(entry *donburi.Entry, value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("component %d: unexpected value type %T", b.id, value)
	}
	if !entry.HasComponent(b.ctype) {
		entry.AddComponent(b.ctype)
	}
	b.ctype.SetValue(entry, v)
	return nil
}

// Registry maps wire component IDs to their bindings.
type Registry struct {
	bindings map[netcomponents.ComponentID]Binding
}

func NewRegistry() *Registry {
	return &Registry{bindings: make(map[netcomponents.ComponentID]Binding)}
}

// Register adds a binding. IDs must be unique and match the ID the
// component type was registered with in esync.
func (r *Registry) Register(b Binding) error {
	if _, exists := r.bindings[b.ID()]; exists {
		return fmt.Errorf("component id %d already registered", b.ID())
	}
	if typ := esync.Mapper.Lookup(uint(b.ID())); typ != b.Type().Typ() {
		return fmt.Errorf("component id %d is mapped to %v in esync, not %v", b.ID(), typ, b.Type().Typ())
	}
	r.bindings[b.ID()] = b
	return nil
}

// Replace swaps the binding registered under b.ID(), e.g. to attach hooks.
func (r *Registry) Replace(b Binding) {
	r.bindings[b.ID()] = b
}

func (r *Registry) Lookup(id netcomponents.ComponentID) (Binding, bool) {
	b, ok := r.bindings[id]
	return b, ok
}

func (r *Registry) Len() int {
	return len(r.bindings)
}

// RegisterComponents registers all synced components.
// Must be called with the same IDs the server uses.
func RegisterComponents(r *Registry) error {
	if err := registerSyncTypes(); err != nil {
		return err
	}

	// Position and velocity are predicted locally for the local player
	if err := r.Register(Bind(netcomponents.IDNetPosition, netcomponents.NetPosition, Predicted())); err != nil {
		return err
	}
	if err := r.Register(Bind(netcomponents.IDNetVelocity, netcomponents.NetVelocity, Predicted())); err != nil {
		return err
	}

	if err := r.Register(Bind(netcomponents.IDNetPlayerState, netcomponents.NetPlayerState)); err != nil {
		return err
	}
	if err := r.Register(Bind(netcomponents.IDNetHealth, netcomponents.NetHealth)); err != nil {
		return err
	}
	if err := r.Register(Bind(netcomponents.IDNetStatusEffects, netcomponents.NetStatusEffects)); err != nil {
		return err
	}
	if err := r.Register(Bind(netcomponents.IDNetInventory, netcomponents.NetInventory)); err != nil {
		return err
	}

	return nil
}

// DefaultRegistry returns a registry with every synced component registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := RegisterComponents(r); err != nil {
		panic(err)
	}
	return r
}

// EncodeComponents is the server-side counterpart of Binding.Decode, used by
// tools and tests that need to produce game-state packets.
func EncodeComponents(values map[netcomponents.ComponentID]any) (map[netcomponents.ComponentID][]byte, error) {
	if err := registerSyncTypes(); err != nil {
		return nil, err
	}
	out := make(map[netcomponents.ComponentID][]byte, len(values))
	for id, v := range values {
		if mapped := esync.Mapper.LookupId(reflect.TypeOf(v)); mapped != uint(id) {
			return nil, fmt.Errorf("component %d: %T is registered as %d", id, v, mapped)
		}
		raw, err := esync.Mapper.Serialize(v)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", id, err)
		}
		out[id] = raw
	}
	return out, nil
}
