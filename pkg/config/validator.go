package config

import (
	"reflect"
	"slices"
	"strings"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/go-playground/validator/v10"
)

// ReportFormatters are the formatter names the step-execution engine understands.
var ReportFormatters = []string{"pretty", "progress", "cucumber", "junit", "events"}

// use a single instance of go-playground/validator Validate, it
// caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()

	err := validate.RegisterValidation("browser_engine", browserEngineValidator)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("report_format", reportFormatValidator)
	if err != nil {
		panic(err)
	}
}

// browserEngineValidator is a github.com/go-playground/validator/v10 custom
// validator. It validates that the field names a supported browser engine.
func browserEngineValidator(fl validator.FieldLevel) bool {
	val, kind, _ := fl.ExtractType(fl.Field())
	if kind != reflect.String {
		return false
	}
	_, err := browser.ParseEngine(val.String())
	return err == nil
}

// reportFormatValidator is a github.com/go-playground/validator/v10 custom
// validator. It validates a "name" or "name:path" formatter reference.
func reportFormatValidator(fl validator.FieldLevel) bool {
	val, kind, _ := fl.ExtractType(fl.Field())
	if kind != reflect.String {
		return false
	}
	name, path, found := strings.Cut(val.String(), ":")
	if found && path == "" {
		return false
	}
	return slices.Contains(ReportFormatters, name)
}
