// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the entities of the Vitality portfolio:
// tracked applications and the result kinds produced by background
// analysis (keywords, evolutions, dependencies, audit reports), plus
// the static help content (FAQs, notifications).
//
// Each result kind is an independently rebuildable collection. Records
// reference their owning application through an embedded
// ModuleDescriptor rather than a normalized foreign key.
package datatypes

// ResultKind identifies one independently rebuildable collection.
//
// Kind values double as the key prefix of the collection in the store,
// so they must stay stable across releases.
type ResultKind string

const (
	KindApplication  ResultKind = "application"
	KindKeyword      ResultKind = "keyword"
	KindEvolution    ResultKind = "evolution"
	KindDependency   ResultKind = "dependency"
	KindAuditReport  ResultKind = "audit_report"
	KindFaq          ResultKind = "faq"
	KindNotification ResultKind = "notification"
)

// RebuildableKinds lists the kinds that analyzer jobs clear and
// repopulate each analysis cycle. Applications, FAQs and notifications
// are managed through forms, never rebuilt.
func RebuildableKinds() []ResultKind {
	return []ResultKind{KindKeyword, KindEvolution, KindDependency, KindAuditReport}
}

// String returns the kind name.
func (k ResultKind) String() string {
	return string(k)
}
