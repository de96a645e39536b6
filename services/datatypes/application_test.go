// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationForm_Build(t *testing.T) {
	form := ApplicationForm{
		AppID:           "5",
		Name:            "Customer Analytics",
		Acronym:         "CA",
		Description:     "Customer facing analytics dashboard",
		ContactMail:     "team@example.com",
		GitOrganization: "acme",
		GitURL:          "git@github.com:acme/customer-analytics.git",
		GitWebURL:       "https://github.com/acme/customer-analytics",
		ProductionLink:  "https://analytics.example.com",
		AdditionalProductionLinks: []string{
			"https://analytics-eu.example.com",
		},
		CIPlatformLink: "https://ci.example.com/acme/customer-analytics",
		// quality and deployment links intentionally empty
	}

	app := form.Build()

	assert.Equal(t, "5", app.AppID)
	assert.Equal(t, "acme", app.Repo.Organization)
	assert.Equal(t, "https://github.com/acme/customer-analytics", app.Repo.WebURL)

	// Empty-valued links are filtered; order of the rest is fixed.
	require.Len(t, app.Links, 3)
	assert.Equal(t, "Application production url", app.Links[0].Label)
	assert.Equal(t, "https://analytics.example.com", app.Links[0].Value)
	assert.Equal(t, "Additional production url (1)", app.Links[1].Label)
	assert.Equal(t, "Application CI/CD platform url", app.Links[2].Label)
}

func TestApplicationForm_BuildAllLinksEmpty(t *testing.T) {
	form := ApplicationForm{AppID: "9", Name: "Bare"}
	app := form.Build()
	assert.Nil(t, app.Links)
}

func TestApplicationForm_Validate(t *testing.T) {
	form := ApplicationForm{Name: "No ID"}
	assert.Error(t, form.Validate())

	form.AppID = "7"
	assert.NoError(t, form.Validate())
}
