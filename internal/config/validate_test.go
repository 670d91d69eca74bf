package config

import "testing"

func hasSeverity(issues []Issue, sev IssueSeverity, path string) bool {
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path {
			return true
		}
	}
	return false
}

func TestValidateEmptyInput(t *testing.T) {
	issues := Validate(Config{})
	if !hasSeverity(issues, SeverityError, "input") {
		t.Errorf("expected error at input, got %+v", issues)
	}
}

func TestValidateNonSasExtensionWarns(t *testing.T) {
	issues := Validate(Config{Input: "data.csv"})
	if !hasSeverity(issues, SeverityWarning, "input") {
		t.Errorf("expected warning at input for non-.sas7bdat extension, got %+v", issues)
	}
}

func TestValidateNegativeRowOffset(t *testing.T) {
	issues := Validate(Config{Input: "x.sas7bdat", RowOffset: -1})
	if !hasSeverity(issues, SeverityError, "row_offset") {
		t.Errorf("expected error at row_offset, got %+v", issues)
	}
}

func TestValidateSQLOutputRequiresQuery(t *testing.T) {
	cfg := Config{
		Input:  "x.sas7bdat",
		Output: Output{Format: "sql"},
	}
	issues := Validate(cfg)
	if !hasSeverity(issues, SeverityError, "output.sql_query") {
		t.Errorf("expected error at output.sql_query, got %+v", issues)
	}
}

func TestValidateUnknownFormatWarns(t *testing.T) {
	cfg := Config{Input: "x.sas7bdat", Output: Output{Format: "xlsx"}}
	issues := Validate(cfg)
	if !hasSeverity(issues, SeverityWarning, "output.format") {
		t.Errorf("expected warning at output.format, got %+v", issues)
	}
}

func TestValidateWorkersWithoutParallelWarns(t *testing.T) {
	cfg := Config{
		Input:   "x.sas7bdat",
		Runtime: RuntimeConfig{Parallel: false, Workers: 4},
	}
	issues := Validate(cfg)
	if !hasSeverity(issues, SeverityWarning, "runtime.workers") {
		t.Errorf("expected warning at runtime.workers, got %+v", issues)
	}
}

func TestValidateCleanConfigHasNoErrors(t *testing.T) {
	cfg := Config{
		Input:  "cars.sas7bdat",
		Output: Output{Format: "csv", Path: "out.csv"},
	}
	for _, iss := range Validate(cfg) {
		if iss.Severity == SeverityError {
			t.Errorf("unexpected error: %v", iss)
		}
	}
}
