/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-resolution-service/internal/contact/model"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func contactAt(id int64, email, phone, precedence string, linkedID int64, minutes int) model.Contact {
	return model.Contact{
		ID:             id,
		Email:          email,
		PhoneNumber:    phone,
		LinkPrecedence: precedence,
		LinkedID:       linkedID,
		CreatedAt:      baseTime.Add(time.Duration(minutes) * time.Minute),
		UpdatedAt:      baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

// ---------------------------------------------------------------------------
// selectPrimary
// ---------------------------------------------------------------------------

func TestSelectPrimary_EarliestCreatedAtWins(t *testing.T) {
	component := []model.Contact{
		contactAt(3, "late@acme.org", "111", "primary", 0, 30),
		contactAt(1, "early@acme.org", "222", "primary", 0, 0),
		contactAt(2, "mid@acme.org", "333", "secondary", 1, 10),
	}

	primary := selectPrimary(component)
	assert.Equal(t, int64(1), primary.ID)
}

func TestSelectPrimary_TieBrokenBySmallestID(t *testing.T) {
	component := []model.Contact{
		contactAt(7, "b@acme.org", "", "primary", 0, 0),
		contactAt(4, "a@acme.org", "", "primary", 0, 0),
	}

	primary := selectPrimary(component)
	assert.Equal(t, int64(4), primary.ID)
}

func TestSelectPrimary_IgnoresStoredPrecedenceFlag(t *testing.T) {
	// The eldest row is currently flagged secondary; seniority still wins.
	component := []model.Contact{
		contactAt(1, "old@acme.org", "111", "secondary", 2, 0),
		contactAt(2, "new@acme.org", "111", "primary", 0, 5),
	}

	primary := selectPrimary(component)
	assert.Equal(t, int64(1), primary.ID)
}

// ---------------------------------------------------------------------------
// planRelink
// ---------------------------------------------------------------------------

func TestPlanRelink_DemotesYoungerPrimaryAndRepointsItsSecondaries(t *testing.T) {
	elder := contactAt(1, "elder@acme.org", "111", "primary", 0, 0)
	component := []model.Contact{
		elder,
		contactAt(2, "younger@acme.org", "222", "primary", 0, 10),
		contactAt(3, "", "333", "secondary", 2, 20),
	}

	relink := planRelink(component, elder)
	assert.ElementsMatch(t, []int64{2, 3}, relink)
}

func TestPlanRelink_SkipsAlreadyCorrectSecondaries(t *testing.T) {
	elder := contactAt(1, "elder@acme.org", "111", "primary", 0, 0)
	component := []model.Contact{
		elder,
		contactAt(2, "other@acme.org", "111", "secondary", 1, 10),
	}

	relink := planRelink(component, elder)
	assert.Empty(t, relink)
}

// ---------------------------------------------------------------------------
// needsNewContact
// ---------------------------------------------------------------------------

func TestNeedsNewContact_ExactPairAlreadyStored(t *testing.T) {
	component := []model.Contact{
		contactAt(1, "a@acme.org", "111", "primary", 0, 0),
	}

	assert.False(t, needsNewContact(component, "a@acme.org", "111"))
}

func TestNeedsNewContact_FreshEmailWithKnownPhone(t *testing.T) {
	component := []model.Contact{
		contactAt(1, "a@acme.org", "111", "primary", 0, 0),
	}

	assert.True(t, needsNewContact(component, "b@acme.org", "111"))
}

func TestNeedsNewContact_BothSidesKnownOnDifferentRows(t *testing.T) {
	component := []model.Contact{
		contactAt(1, "a@acme.org", "111", "primary", 0, 0),
		contactAt(2, "b@acme.org", "222", "secondary", 1, 10),
	}

	// a@acme.org and 222 were never stored on the same row, but both values
	// are known, so the existing coverage is sufficient.
	assert.False(t, needsNewContact(component, "a@acme.org", "222"))
}

func TestNeedsNewContact_SingleKnownIdentifier(t *testing.T) {
	component := []model.Contact{
		contactAt(1, "a@acme.org", "111", "primary", 0, 0),
	}

	assert.False(t, needsNewContact(component, "", "111"))
	assert.False(t, needsNewContact(component, "a@acme.org", ""))
}

// ---------------------------------------------------------------------------
// buildConsolidatedContact
// ---------------------------------------------------------------------------

func TestBuildConsolidatedContact_PrimaryValuesLeadTheirLists(t *testing.T) {
	primary := contactAt(1, "primary@acme.org", "111", "primary", 0, 0)
	component := []model.Contact{
		contactAt(3, "extra@acme.org", "333", "secondary", 1, 20),
		primary,
		contactAt(2, "other@acme.org", "222", "secondary", 1, 10),
	}

	view := buildConsolidatedContact(primary, component)

	require.NotEmpty(t, view.Emails)
	assert.Equal(t, "primary@acme.org", view.Emails[0])
	assert.Equal(t, "111", view.PhoneNumbers[0])
	assert.Equal(t, int64(1), view.PrimaryContactID)
	assert.Equal(t, []int64{3, 2}, view.SecondaryContactIDs)
}

func TestBuildConsolidatedContact_DeduplicatesValues(t *testing.T) {
	primary := contactAt(1, "a@acme.org", "111", "primary", 0, 0)
	component := []model.Contact{
		primary,
		contactAt(2, "a@acme.org", "222", "secondary", 1, 10),
		contactAt(3, "b@acme.org", "222", "secondary", 1, 20),
	}

	view := buildConsolidatedContact(primary, component)

	assert.Equal(t, []string{"a@acme.org", "b@acme.org"}, view.Emails)
	assert.Equal(t, []string{"111", "222"}, view.PhoneNumbers)
}

func TestBuildConsolidatedContact_SingletonPrimary(t *testing.T) {
	primary := contactAt(1, "solo@acme.org", "", "primary", 0, 0)

	view := buildConsolidatedContact(primary, []model.Contact{primary})

	assert.Equal(t, []string{"solo@acme.org"}, view.Emails)
	assert.Empty(t, view.PhoneNumbers)
	assert.NotNil(t, view.PhoneNumbers)
	assert.NotNil(t, view.SecondaryContactIDs)
	assert.Empty(t, view.SecondaryContactIDs)
}
