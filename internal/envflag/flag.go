// Copyright 2025 The IRMatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package envflag parses configuration flags from environment variables
// such as IRMATCH_DEBUG.
package envflag

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Init uses Parse with the contents of the given environment variable as input.
func Init[T any](flags *T, envVar string) error {
	if err := Parse(flags, os.Getenv(envVar)); err != nil {
		return fmt.Errorf("cannot parse %s: %w", envVar, err)
	}
	return nil
}

// Parse sets the fields of *flags from their `envflag:"default:value"` tags
// and then from env, a comma-separated list of name=value pairs.
//
// Field names match case insensitively. A bool flag given without a value
// is set to true, mirroring -name on a Go command line; other kinds require
// a value. Supported field kinds are bool, int, and string.
//
// Empty elements are ignored, so lists may be joined naively:
//
//	os.Setenv("IRMATCH_DEBUG", os.Getenv("IRMATCH_DEBUG")+",strict")
//
// All elements are processed even if some fail; the returned error joins
// every failure.
func Parse[T any](flags *T, env string) error {
	fv := reflect.ValueOf(flags).Elem()
	fields, err := collect(fv)
	if err != nil {
		return err
	}

	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			continue
		}
		name, str, hasValue := strings.Cut(elem, "=")
		f, ok := fields[strings.ToLower(name)]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown flag %q", elem))
			continue
		}
		switch {
		case hasValue:
			v, err := parseValue(name, f.Kind(), str)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			f.Set(reflect.ValueOf(v))
		case f.Kind() == reflect.Bool:
			f.SetBool(true)
		default:
			errs = append(errs, fmt.Errorf("value needed for %s flag %q", f.Kind(), name))
		}
	}
	return errors.Join(errs...)
}

// collect indexes the fields of fv by lower-cased name and applies
// defaults.
func collect(fv reflect.Value) (map[string]reflect.Value, error) {
	ft := fv.Type()
	fields := make(map[string]reflect.Value, ft.NumField())
	for i := range ft.NumField() {
		sf := ft.Field(i)
		name := strings.ToLower(sf.Name)
		fields[name] = fv.Field(i)

		tag, ok := sf.Tag.Lookup("envflag")
		if !ok {
			continue
		}
		key, def, _ := strings.Cut(tag, ":")
		if key != "default" {
			return nil, fmt.Errorf("unknown envflag tag %q", tag)
		}
		v, err := parseValue(name, sf.Type.Kind(), def)
		if err != nil {
			return nil, err
		}
		fv.Field(i).Set(reflect.ValueOf(v))
	}
	return fields, nil
}

func parseValue(name string, kind reflect.Kind, str string) (val any, err error) {
	switch kind {
	case reflect.Bool:
		val, err = strconv.ParseBool(str)
	case reflect.Int:
		val, err = strconv.Atoi(str)
	case reflect.String:
		val = str
	default:
		return nil, errInvalid{fmt.Errorf("unsupported kind %s", kind)}
	}
	if err != nil {
		return nil, errInvalid{fmt.Errorf("invalid %s value for %s: %v", kind, name, err)}
	}
	return val, nil
}

// ErrInvalid indicates a malformed input string.
var ErrInvalid = errors.New("invalid value")

type errInvalid struct{ error }

func (errInvalid) Is(err error) bool {
	return err == ErrInvalid
}
