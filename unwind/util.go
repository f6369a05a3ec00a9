package unwind

import "github.com/cloudcmds/unwind/rtti"

func typeName(t rtti.TypeInfo) string {
	if t == nil {
		return "<any>"
	}
	return t.Name()
}
