// Package task provides the auto-naming helper used when a caller has
// no stable identity for a callable: hashing the callable's source
// stands in for introspecting its compiled bytecode.
package task

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var nonDotted = regexp.MustCompile(`[._]`)

// AutoName derives a stable, dotted "auto.<module>.<hash>" task name
// from a module name and a code body.
func AutoName(moduleName, code string) string {
	clean := nonDotted.ReplaceAllString(moduleName, "")
	sum := sha256.Sum256([]byte(code))
	return "auto." + clean + "." + hex.EncodeToString(sum[:])
}
