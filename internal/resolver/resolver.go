package resolver

import (
	"fmt"
	"strings"

	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/schema"
)

// Mode selects the generation policy. The two modes share the classifier and
// differ in how field types are rewritten; they are never combined.
type Mode int

const (
	// ModeSimple wraps fields, rewrites named types to their counterparts and
	// emits no conversion.
	ModeSimple Mode = iota
	// ModeActive wraps fields without counterpart rewriting and emits
	// ToActive.
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeActive:
		return "active"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple":
		return ModeSimple, nil
	case "active":
		return ModeActive, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want simple or active)", s)
	}
}

// Resolver turns a struct description into a generation plan.
type Resolver interface {
	Mode() Mode
	Resolve(st *schema.Struct) (*StructPlan, error)
}

type simpleResolver struct {
	classifier classifier.Classifier
}

type activeResolver struct {
	classifier classifier.Classifier
}

// New returns the resolver for mode.
func New(mode Mode, c classifier.Classifier) (Resolver, error) {
	switch mode {
	case ModeSimple:
		return NewSimple(c), nil
	case ModeActive:
		return NewActive(c), nil
	default:
		return nil, fmt.Errorf("unsupported mode %s", mode)
	}
}

// NewSimple returns the simple-mode resolver.
func NewSimple(c classifier.Classifier) Resolver {
	return &simpleResolver{classifier: c}
}

// NewActive returns the active-model resolver.
func NewActive(c classifier.Classifier) Resolver {
	return &activeResolver{classifier: c}
}

func (r *simpleResolver) Mode() Mode { return ModeSimple }

func (r *simpleResolver) Resolve(st *schema.Struct) (*StructPlan, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	classified := r.classifier.ClassifyAll(st)
	fields := make([]FieldPlan, 0, len(classified))
	for _, cf := range classified {
		plan := FieldPlan{
			Field: cf,
			Shape: ShapeWrapped,
			Elem:  cf.Field.Type,
			Rule:  RuleFor(cf.Ignored, cf.AlreadyOptional),
		}
		switch {
		case cf.Ignored || cf.AlreadyOptional:
			plan.Shape = ShapeDeclared
		case cf.HasCounterpart:
			if counterpart := CounterpartType(cf.Field.Type); counterpart != nil {
				plan.Shape = ShapeWrappedCounterpart
				plan.Elem = counterpart
			}
		}
		fields = append(fields, plan)
	}
	return &StructPlan{
		Src:    st,
		Name:   OptionalName(st.Name),
		Mode:   ModeSimple,
		Fields: fields,
	}, nil
}

func (r *activeResolver) Mode() Mode { return ModeActive }

func (r *activeResolver) Resolve(st *schema.Struct) (*StructPlan, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	classified := r.classifier.ClassifyAll(st)
	fields := make([]FieldPlan, 0, len(classified))
	for _, cf := range classified {
		shape := ShapeWrapped
		if cf.Ignored || cf.AlreadyOptional {
			shape = ShapeDeclared
		}
		fields = append(fields, FieldPlan{
			Field: cf,
			Shape: shape,
			Elem:  cf.Field.Type,
			Rule:  RuleFor(cf.Ignored, cf.AlreadyOptional),
		})
	}
	return &StructPlan{
		Src:            st,
		Name:           OptionalName(st.Name),
		Mode:           ModeActive,
		Fields:         fields,
		EmitConversion: true,
	}, nil
}
