// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// ModuleDescriptor identifies the unit of code a finding applies to.
// It is embedded inside Keyword, Evolution, Dependency and AuditReport
// records; ownership is by matching AppID, not a foreign key.
type ModuleDescriptor struct {
	AppID  string `json:"appId"`
	Branch string `json:"branch"`
	Path   string `json:"path"`
}
