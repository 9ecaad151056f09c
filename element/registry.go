package element

import (
	"reflect"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/logger"
)

// Factory constructs a fresh, unconfigured element instance.
type Factory func(log *logger.Logger) Element

// Registry resolves element identifiers to factories and instantiates
// elements by binding descriptor parameters to their configuration structs.
// Registration is explicit at startup; there is no dynamic code loading.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	log       *logger.Logger
	validate  *validator.Validate
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return FieldName(sf)
	})
	return &Registry{
		factories: make(map[string]Factory),
		log:       log.WithComponent("registry"),
		validate:  v,
	}
}

// Register adds a factory under an element identifier. Later registrations
// replace earlier ones.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Lookup retrieves a factory by identifier.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns sorted identifiers of all registered factories.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create resolves the descriptor's identifier and instantiates the element:
// named parameters are bound to the configuration struct, required
// parameters are enforced, the resolved configuration becomes the element's
// defaults table, and unconsumed parameters are applied as post-construction
// property assignments. All failures here are fatal build-time errors.
func (r *Registry) Create(desc Descriptor) (Element, error) {
	id, err := desc.ID()
	if err != nil {
		return nil, err
	}

	factory, ok := r.Lookup(id)
	if !ok {
		return nil, errors.ElementNotFound(id)
	}

	el := factory(r.log.WithComponent(id))
	params := desc.Params()
	extra := params

	if c, ok := el.(Configurable); ok {
		cfg := c.Config()
		extra, err = bind(params, cfg)
		if err != nil {
			return nil, errors.InvalidPipeline("invalid parameters for element "+id).
				WithDetail("element", id).WithCause(err)
		}
		if err := r.checkRequired(id, cfg); err != nil {
			return nil, err
		}
		if da, ok := el.(DefaultsAware); ok {
			da.SetDefaults(DefaultsOf(cfg))
		}
	}

	for name, value := range extra {
		setter, ok := el.(PropertySetter)
		if !ok {
			return nil, errors.InvalidPipeline("unknown parameter "+name+" for element "+id).
				WithDetail("element", id).WithDetail("parameter", name)
		}
		if err := setter.SetProperty(name, value); err != nil {
			return nil, errors.InvalidPipeline("cannot set parameter "+name+" for element "+id).
				WithDetail("element", id).WithDetail("parameter", name).WithCause(err)
		}
	}

	if init, ok := el.(Initializer); ok {
		if err := init.Init(); err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e
			}
			return nil, errors.InvalidPipeline("cannot initialize element "+id).
				WithDetail("element", id).WithCause(err)
		}
	}

	r.log.Debug("element created", logger.Fields(logger.FieldElement, id))
	return el, nil
}

// checkRequired validates the bound configuration, mapping required-tag
// failures to missing-argument errors.
func (r *Registry) checkRequired(id string, cfg any) error {
	err := r.validate.Struct(cfg)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			if ve.Tag() == "required" {
				return errors.MissingArgument(id, ve.Field())
			}
		}
	}
	return errors.InvalidPipeline("invalid configuration for element " + id).
		WithDetail("element", id).WithCause(err)
}

// bind decodes descriptor parameters into a configuration struct and
// returns the parameters the struct did not consume.
func bind(params map[string]any, cfg any) (map[string]any, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(params); err != nil {
		return nil, err
	}
	extra := make(map[string]any, len(md.Unused))
	for _, key := range md.Unused {
		extra[key] = params[key]
	}
	return extra, nil
}
