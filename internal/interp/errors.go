package interp

// ErrorKind enumerates the diagnostic taxonomy consumed by ErrorSink.
type ErrorKind uint8

const (
	ErrNoSuchTemplate ErrorKind = iota
	ErrNoImportedTemplate
	ErrNoSuchProperty
	ErrNoAttributeDefinition
	ErrExpectingString
	ErrExpectingSingleArgument
	ErrMissingFormalArguments
	ErrMapArgumentCountMismatch
	ErrWriteIOError
	ErrInternalError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNoSuchTemplate:
		return "NO_SUCH_TEMPLATE"
	case ErrNoImportedTemplate:
		return "NO_IMPORTED_TEMPLATE"
	case ErrNoSuchProperty:
		return "NO_SUCH_PROPERTY"
	case ErrNoAttributeDefinition:
		return "NO_ATTRIBUTE_DEFINITION"
	case ErrExpectingString:
		return "EXPECTING_STRING"
	case ErrExpectingSingleArgument:
		return "EXPECTING_SINGLE_ARGUMENT"
	case ErrMissingFormalArguments:
		return "MISSING_FORMAL_ARGUMENTS"
	case ErrMapArgumentCountMismatch:
		return "MAP_ARGUMENT_COUNT_MISMATCH"
	case ErrWriteIOError:
		return "WRITE_IO_ERROR"
	case ErrInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// ErrorSink receives non-fatal runtime diagnostics. The interpreter never
// returns these as Go errors from Exec — it reports and substitutes a
// sentinel value instead.
type ErrorSink interface {
	RuntimeError(tmpl *Template, ip int, kind ErrorKind, details string)
}

// NopErrorSink discards every report; useful for nested default-argument
// evaluation where an eager default render shouldn't double-report into
// the caller's sink — pass a real sink there if that's desired.
type NopErrorSink struct{}

func (NopErrorSink) RuntimeError(*Template, int, ErrorKind, string) {}

// CollectingErrorSink accumulates reports in order; the reference CLI and
// tests use this to assert on what was reported.
type CollectingErrorSink struct {
	Reports []ErrorReport
}

type ErrorReport struct {
	TemplateName string
	IP           int
	Kind         ErrorKind
	Details      string
}

func (c *CollectingErrorSink) RuntimeError(tmpl *Template, ip int, kind ErrorKind, details string) {
	name := ""
	if tmpl != nil && tmpl.Impl != nil {
		name = tmpl.Impl.Name
	}
	c.Reports = append(c.Reports, ErrorReport{TemplateName: name, IP: ip, Kind: kind, Details: details})
}
