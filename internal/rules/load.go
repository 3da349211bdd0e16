package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vyakarana/internal/compiler"
	"github.com/roach88/vyakarana/internal/ir"
)

// Error code constants for rule loading.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeCompile     = "E007" // Rule source has a value of the wrong kind
	ErrCodeInvalid     = "E008" // Rule set failed validation
)

// LoadError represents an error that occurred while loading a rule directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadSetDir compiles the CUE files in dir into an unvalidated RuleSet.
func LoadSetDir(dir string) (*ir.RuleSet, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err), Err: inst.Err}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err), Err: err}
	}

	set, err := compiler.CompileRuleSet(value)
	if err != nil {
		loadErr := &LoadError{Code: ErrCodeCompile, Message: err.Error(), Err: err}
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) {
			loadErr.Message = fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message)
			loadErr.Pos = compileErr.Pos
		}
		return nil, loadErr
	}

	return set, nil
}

// LoadDir compiles and validates the CUE files in dir into a RuleTable.
// Validation failures are returned as a LoadError wrapping the
// *compiler.ConfigError.
func LoadDir(dir string) (*ir.RuleTable, error) {
	set, err := LoadSetDir(dir)
	if err != nil {
		return nil, err
	}

	table, err := compiler.Build(set)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Err: err}
	}
	return table, nil
}

// Load returns the table from dir, or the built-in table when dir is empty.
func Load(dir string) (*ir.RuleTable, error) {
	if dir == "" {
		return Default(), nil
	}
	return LoadDir(dir)
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
