// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for all datatypes.
// Validation tags live on the struct definitions; each entity exposes
// a Validate() method wrapping this instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
}
