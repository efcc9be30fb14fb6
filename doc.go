// Package environment resolves typed configuration values from environment
// variables against declared defaults.
//
// It supports:
//  1. Declaring variables with a default Value (string, number, bool or list
//     of strings), optionally marked Required or as a Directory.
//  2. Coercing environment overrides to the kind of the default: "true" and
//     "yes" are true, numbers are parsed as float64 (NaN when unparseable),
//     lists are split on "," and trimmed.
//  3. Validating the result with Check, and creating missing directories with
//     CreateDirectories.
//  4. Copying the result into a struct with Decode (optionally validated by
//     github.com/ygrebnov/model) and writing it out with Encode.
//
// Typical usage:
//
//	env := environment.New(environment.Defaults{
//	    "NODE_ENV": environment.Default(environment.String("development")),
//	    "PORT":     environment.Default(environment.Int(8080)),
//	    "API_KEY":  environment.Required(environment.String("")),
//	    "DATA_DIR": environment.Dir("./data"),
//	})
//	if err := env.CreateDirectories(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := env.Check(); err != nil {
//	    log.Fatal(err)
//	}
//	port, _ := env.Value("PORT").Num()
package environment
