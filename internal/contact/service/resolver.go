/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package service

import (
	"github.com/wso2/identity-resolution-service/internal/contact/model"
	"github.com/wso2/identity-resolution-service/internal/system/constants"
)

// Pure component logic. Everything in this file operates on in-memory
// contact slices so merge decisions can be tested without a database.

// selectPrimary picks the canonical contact of a component: the earliest
// CreatedAt wins, ties broken by smallest id. The current link_precedence
// flag is deliberately ignored; seniority is recomputed from scratch so a
// merge of two components always settles on the elder primary.
func selectPrimary(contacts []model.Contact) model.Contact {

	primary := contacts[0]
	for _, contact := range contacts[1:] {
		if contact.CreatedAt.Before(primary.CreatedAt) ||
			(contact.CreatedAt.Equal(primary.CreatedAt) && contact.ID < primary.ID) {
			primary = contact
		}
	}
	return primary
}

// planRelink returns the ids of every contact whose stored state does not
// already read "secondary, linked to primary". This covers both a younger
// primary being demoted and its old secondaries being re-pointed.
func planRelink(contacts []model.Contact, primary model.Contact) []int64 {

	var relink []int64
	for _, contact := range contacts {
		if contact.ID == primary.ID {
			continue
		}
		if contact.LinkPrecedence != constants.LinkPrecedenceSecondary || contact.LinkedID != primary.ID {
			relink = append(relink, contact.ID)
		}
	}
	return relink
}

// collectIdentifiers gathers the distinct non-empty emails and phones seen
// across the contacts, preserving first-seen order.
func collectIdentifiers(contacts []model.Contact) (emails []string, phones []string) {

	seenEmails := map[string]bool{}
	seenPhones := map[string]bool{}
	for _, contact := range contacts {
		if contact.Email != "" && !seenEmails[contact.Email] {
			seenEmails[contact.Email] = true
			emails = append(emails, contact.Email)
		}
		if contact.PhoneNumber != "" && !seenPhones[contact.PhoneNumber] {
			seenPhones[contact.PhoneNumber] = true
			phones = append(phones, contact.PhoneNumber)
		}
	}
	return emails, phones
}

// needsNewContact reports whether the incoming fact carries information not
// yet present in the component. A row is only added when at least one side
// of the pair is a fresh value; if both sides are already known, even on
// different rows, the existing coverage is sufficient.
func needsNewContact(contacts []model.Contact, email, phone string) bool {

	emails, phones := collectIdentifiers(contacts)

	emailKnown := email == ""
	for _, e := range emails {
		if e == email {
			emailKnown = true
			break
		}
	}
	phoneKnown := phone == ""
	for _, p := range phones {
		if p == phone {
			phoneKnown = true
			break
		}
	}
	return !emailKnown || !phoneKnown
}

// buildConsolidatedContact formats the component snapshot into the response
// view. The primary's own email and phone lead their lists when present;
// remaining values follow in storage order, deduplicated. Secondary ids are
// listed in storage order.
func buildConsolidatedContact(primary model.Contact, component []model.Contact) model.ConsolidatedContact {

	emails := []string{}
	phones := []string{}
	seenEmails := map[string]bool{}
	seenPhones := map[string]bool{}

	if primary.Email != "" {
		seenEmails[primary.Email] = true
		emails = append(emails, primary.Email)
	}
	if primary.PhoneNumber != "" {
		seenPhones[primary.PhoneNumber] = true
		phones = append(phones, primary.PhoneNumber)
	}

	secondaryIDs := []int64{}
	for _, contact := range component {
		if contact.Email != "" && !seenEmails[contact.Email] {
			seenEmails[contact.Email] = true
			emails = append(emails, contact.Email)
		}
		if contact.PhoneNumber != "" && !seenPhones[contact.PhoneNumber] {
			seenPhones[contact.PhoneNumber] = true
			phones = append(phones, contact.PhoneNumber)
		}
		if contact.LinkPrecedence == constants.LinkPrecedenceSecondary {
			secondaryIDs = append(secondaryIDs, contact.ID)
		}
	}

	return model.ConsolidatedContact{
		PrimaryContactID:    primary.ID,
		Emails:              emails,
		PhoneNumbers:        phones,
		SecondaryContactIDs: secondaryIDs,
	}
}
