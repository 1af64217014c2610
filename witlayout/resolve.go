package witlayout

import (
	"io"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/bufstruct/errors"
)

// DecodeJSON reads a resolve in the JSON form printed by
// `wasm-tools component wit --json`.
func DecodeJSON(r io.Reader) (*wit.Resolve, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImport, errors.KindInvalidData, err, "decode wit json")
	}
	Logger().Debug("decoded wit resolve",
		zap.Int("types", len(res.TypeDefs)),
		zap.Int("interfaces", len(res.Interfaces)))
	return res, nil
}

// Lookup finds a named type. The name is either bare ("header") or qualified
// by its interface ("types.header"). A bare name must be unique.
func Lookup(res *wit.Resolve, name string) (*wit.TypeDef, error) {
	if res == nil {
		return nil, errors.NilPointer(errors.PhaseImport, nil, "resolve")
	}
	owner, typ := "", name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		owner, typ = name[:i], name[i+1:]
	}

	var found *wit.TypeDef
	for _, td := range res.TypeDefs {
		if td.Name == nil || *td.Name != typ {
			continue
		}
		if owner != "" && ownerName(td) != owner {
			continue
		}
		if found != nil {
			return nil, errors.New(errors.PhaseImport, errors.KindInvalidInput).
				Value(name).
				Detail("type name %q is ambiguous, qualify it with its interface", name).
				Build()
		}
		found = td
	}
	if found == nil {
		return nil, errors.NotFound(errors.PhaseImport, "type", name)
	}
	return found, nil
}

func ownerName(td *wit.TypeDef) string {
	if iface, ok := td.Owner.(*wit.Interface); ok && iface.Name != nil {
		return *iface.Name
	}
	return ""
}

// Records lists the names of every record type in res, qualified when the
// owning interface is named.
func Records(res *wit.Resolve) []string {
	var out []string
	for _, td := range res.TypeDefs {
		if td.Name == nil {
			continue
		}
		if _, ok := td.Kind.(*wit.Record); !ok {
			continue
		}
		name := *td.Name
		if owner := ownerName(td); owner != "" {
			name = owner + "." + name
		}
		out = append(out, name)
	}
	return out
}
