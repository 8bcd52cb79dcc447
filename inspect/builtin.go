package inspect

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Built-in inspector names, usable in rule Inspections lists.
const (
	NameSizeLimit    = "size_limit"
	NameBackupPath   = "backup_path"
	NamePathGuard    = "path_guard"
	NameCommandGuard = "command_guard"
	NameSchema       = "schema"
)

// SizeLimit injects a byte budget into write parameters. When the document
// carries no "max_bytes", or one above the configured ceiling, the inspector
// rewrites it to the ceiling. Handlers are expected to honor the budget.
func SizeLimit(maxBytes int64) Inspector {
	return Func{
		ID: NameSizeLimit,
		Fn: func(_ context.Context, params []byte, _ Context) Result {
			current := gjson.GetBytes(params, "max_bytes")
			if current.Exists() && current.Int() > 0 && current.Int() <= maxBytes {
				return Pass()
			}
			modified, err := sjson.SetBytes(params, "max_bytes", maxBytes)
			if err != nil {
				return Fail(fmt.Sprintf("cannot inject size limit: %v", err), SeverityCritical)
			}
			return PassModified(modified, fmt.Sprintf("size limit capped at %d bytes", maxBytes))
		},
	}
}

// BackupPath forces a backup destination for destructive writes: when the
// parameters carry a "path" but no "backup_path", one is derived inside the
// given backup directory.
func BackupPath(backupDir string) Inspector {
	return Func{
		ID: NameBackupPath,
		Fn: func(_ context.Context, params []byte, _ Context) Result {
			target := gjson.GetBytes(params, "path")
			if !target.Exists() || gjson.GetBytes(params, "backup_path").Exists() {
				return Pass()
			}
			backup := path.Join(backupDir, path.Base(target.String())+".bak")
			modified, err := sjson.SetBytes(params, "backup_path", backup)
			if err != nil {
				return Fail(fmt.Sprintf("cannot inject backup path: %v", err), SeverityCritical)
			}
			return PassModified(modified, fmt.Sprintf("backup forced to %s", backup))
		},
	}
}

// PathGuard vetoes actions whose "path" parameter escapes the workspace root
// or lands in one of the denied prefixes. Paths are normalized before the
// check, so "/workspace/../etc" does not slip through.
func PathGuard(root string, denied ...string) Inspector {
	cleanRoot := path.Clean(root)
	return Func{
		ID: NamePathGuard,
		Fn: func(_ context.Context, params []byte, _ Context) Result {
			target := gjson.GetBytes(params, "path")
			if !target.Exists() {
				return Pass()
			}
			cleaned := path.Clean(target.String())

			for _, prefix := range denied {
				if cleaned == prefix || strings.HasPrefix(cleaned, prefix+"/") {
					return Fail(fmt.Sprintf("path %q is in the denied prefix %q", cleaned, prefix), SeverityCritical)
				}
			}
			if cleanRoot != "" && cleaned != cleanRoot && !strings.HasPrefix(cleaned, cleanRoot+"/") {
				return Fail(fmt.Sprintf("path %q escapes the workspace root %q", cleaned, cleanRoot), SeverityCritical)
			}
			return Pass()
		},
	}
}

var destructiveCommands = []string{
	"rm -rf /",
	"mkfs",
	"dd if=",
	":(){ :|:& };:",
}

// CommandGuard vetoes shell commands that chain through metacharacters or
// match a known-destructive pattern. It inspects the "command" parameter and
// passes documents that carry none.
func CommandGuard() Inspector {
	return Func{
		ID: NameCommandGuard,
		Fn: func(_ context.Context, params []byte, _ Context) Result {
			command := gjson.GetBytes(params, "command")
			if !command.Exists() {
				return Pass()
			}
			text := command.String()

			for _, bad := range destructiveCommands {
				if strings.Contains(text, bad) {
					return Fail(fmt.Sprintf("command matches destructive pattern %q", bad), SeverityCritical)
				}
			}
			for _, meta := range []string{"$(", "`", "&&", "||", ";", "|"} {
				if strings.Contains(text, meta) {
					return Fail(fmt.Sprintf("command chaining via %q is not allowed", meta), SeverityWarning)
				}
			}
			return Pass()
		},
	}
}

// SchemaLookup resolves the compiled parameter schema for an action name.
// The action catalog provides one.
type SchemaLookup func(action string) *jsonschema.Schema

// Schema validates the parameter document against the schema registered for
// the action. Actions without a registered schema pass; a document that does
// not validate is vetoed.
func Schema(lookup SchemaLookup) Inspector {
	return Func{
		ID: NameSchema,
		Fn: func(_ context.Context, params []byte, ic Context) Result {
			schema := lookup(ic.Action)
			if schema == nil {
				return Pass()
			}

			var doc any
			raw := params
			if len(raw) == 0 {
				raw = []byte("{}")
			}
			if err := json.Unmarshal(raw, &doc); err != nil {
				return Fail(fmt.Sprintf("parameters are not valid JSON: %v", err), SeverityCritical)
			}
			if err := schema.Validate(doc); err != nil {
				return Fail(fmt.Sprintf("parameters do not match the schema for %q: %v", ic.Action, err), SeverityCritical)
			}
			return Pass()
		},
	}
}
