// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "fmt"

// Link is a labeled URL attached to an application or a help payload.
type Link struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Repo describes where an application's source lives.
type Repo struct {
	WebURL       string `json:"webUrl"`
	GitURL       string `json:"gitUrl"`
	Organization string `json:"organization"`
}

// Application is one tracked application of the portfolio.
//
// # Description
//
// Applications are created and edited through form input (the back
// office), unlike the result kinds which are rebuilt by analyzers.
// An application owns zero-or-more keywords, evolutions, dependencies
// and audit reports by AppID reference.
//
// # Fields
//
//   - AppID: Required, unique. The portfolio-wide application key.
//   - Name/Acronym/Description/ContactMail: Descriptive fields.
//   - Repo: Source location (web URL, git URL, organization).
//   - Links: Ordered, labeled platform URLs (production, quality,
//     CI/CD, deployment) with empty values filtered out at build time.
type Application struct {
	AppID       string `json:"appId" validate:"required"`
	Name        string `json:"name"`
	Acronym     string `json:"acronym"`
	Description string `json:"description"`
	ContactMail string `json:"contactMail"`
	Repo        Repo   `json:"repo"`
	Links       []Link `json:"links,omitempty"`
}

// Validate checks the required-field invariant.
func (a *Application) Validate() error {
	return validate.Struct(a)
}

// ApplicationForm is the flat form input an application is created or
// edited from. The provider converts it to an Application via Build().
type ApplicationForm struct {
	AppID                     string   `json:"appId" validate:"required"`
	Name                      string   `json:"name"`
	Acronym                   string   `json:"acronym"`
	Description               string   `json:"description"`
	ContactMail               string   `json:"contactMail"`
	GitOrganization           string   `json:"gitOrganization"`
	GitURL                    string   `json:"gitUrl"`
	GitWebURL                 string   `json:"gitWebUrl"`
	ProductionLink            string   `json:"productionLink"`
	AdditionalProductionLinks []string `json:"additionalProductionLinks,omitempty"`
	CodeQualityPlatformLink   string   `json:"codeQualityPlatformLink"`
	CIPlatformLink            string   `json:"ciPlatformLink"`
	DeploymentPlatformLink    string   `json:"deploymentPlatformLink"`
}

// Validate checks the required-field invariant.
func (f *ApplicationForm) Validate() error {
	return validate.Struct(f)
}

// Build assembles the standardized Application from form input.
//
// Links are built in a fixed order (production first, then additional
// production URLs, quality platform, CI/CD, deployment) and entries
// with an empty value are dropped.
func (f *ApplicationForm) Build() Application {
	links := []Link{
		{Label: "Application production url", Value: f.ProductionLink},
	}
	for i, link := range f.AdditionalProductionLinks {
		links = append(links, Link{
			Label: fmt.Sprintf("Additional production url (%d)", i+1),
			Value: link,
		})
	}
	links = append(links,
		Link{Label: "Application code quality platform url", Value: f.CodeQualityPlatformLink},
		Link{Label: "Application CI/CD platform url", Value: f.CIPlatformLink},
		Link{Label: "Application deployment platform url", Value: f.DeploymentPlatformLink},
	)

	kept := links[:0]
	for _, link := range links {
		if link.Value != "" {
			kept = append(kept, link)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}

	return Application{
		AppID:       f.AppID,
		Name:        f.Name,
		Acronym:     f.Acronym,
		Description: f.Description,
		ContactMail: f.ContactMail,
		Repo: Repo{
			WebURL:       f.GitWebURL,
			GitURL:       f.GitURL,
			Organization: f.GitOrganization,
		},
		Links: kept,
	}
}

// ApplicationProfile is the composed, multi-kind view of one
// application assembled by the aggregator. Every field is optional:
// a sub-fetch that failed or found nothing leaves its field empty
// rather than failing the profile.
type ApplicationProfile struct {
	Info         *Application  `json:"info,omitempty"`
	Evolutions   []Evolution   `json:"evolutions,omitempty"`
	Dependencies []Dependency  `json:"dependencies,omitempty"`
	AuditReports []AuditReport `json:"auditReports,omitempty"`
	Keywords     []Keyword     `json:"keywords,omitempty"`
}
