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

package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-resolution-service/internal/contact/service"
)

func countContacts(t *testing.T) int {
	t.Helper()
	var count int
	err := testDB.QueryRow("SELECT COUNT(*) FROM contact").Scan(&count)
	require.NoError(t, err)
	return count
}

func countPrimaries(t *testing.T) int {
	t.Helper()
	var count int
	err := testDB.QueryRow("SELECT COUNT(*) FROM contact WHERE link_precedence = 'primary'").Scan(&count)
	require.NoError(t, err)
	return count
}

func TestResolveIdentity_FreshIdentifiers_CreatesPrimary(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	view, err := svc.ResolveIdentity(context.Background(), "lorraine@hillvalley.edu", "123456")
	require.NoError(t, err)

	assert.Equal(t, []string{"lorraine@hillvalley.edu"}, view.Emails)
	assert.Equal(t, []string{"123456"}, view.PhoneNumbers)
	assert.Empty(t, view.SecondaryContactIDs)
	assert.Equal(t, 1, countContacts(t))
}

func TestResolveIdentity_SharedPhoneNewEmail_CreatesSecondary(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	first, err := svc.ResolveIdentity(context.Background(), "lorraine@hillvalley.edu", "123456")
	require.NoError(t, err)

	second, err := svc.ResolveIdentity(context.Background(), "mcfly@hillvalley.edu", "123456")
	require.NoError(t, err)

	assert.Equal(t, first.PrimaryContactID, second.PrimaryContactID)
	assert.Equal(t, []string{"lorraine@hillvalley.edu", "mcfly@hillvalley.edu"}, second.Emails)
	assert.Equal(t, []string{"123456"}, second.PhoneNumbers)
	assert.Len(t, second.SecondaryContactIDs, 1)
	assert.Equal(t, 2, countContacts(t))
}

func TestResolveIdentity_KnownPhoneOnly_NoNewRow(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	_, err := svc.ResolveIdentity(context.Background(), "lorraine@hillvalley.edu", "123456")
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(context.Background(), "mcfly@hillvalley.edu", "123456")
	require.NoError(t, err)
	rows := countContacts(t)

	view, err := svc.ResolveIdentity(context.Background(), "", "123456")
	require.NoError(t, err)

	assert.Equal(t, []string{"lorraine@hillvalley.edu", "mcfly@hillvalley.edu"}, view.Emails)
	assert.Len(t, view.SecondaryContactIDs, 1)
	assert.Equal(t, rows, countContacts(t))
}

func TestResolveIdentity_ExactPairRepeat_Idempotent(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	first, err := svc.ResolveIdentity(context.Background(), "doc@hillvalley.edu", "717171")
	require.NoError(t, err)

	second, err := svc.ResolveIdentity(context.Background(), "doc@hillvalley.edu", "717171")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, countContacts(t))
}

func TestResolveIdentity_MergeTwoPrimaries_ElderWins(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	elder, err := svc.ResolveIdentity(context.Background(), "george@hillvalley.edu", "919191")
	require.NoError(t, err)

	younger, err := svc.ResolveIdentity(context.Background(), "biffsucks@hillvalley.edu", "717171")
	require.NoError(t, err)
	require.NotEqual(t, elder.PrimaryContactID, younger.PrimaryContactID)

	// Attach a secondary to the younger primary before the merge.
	_, err = svc.ResolveIdentity(context.Background(), "tannen@hillvalley.edu", "717171")
	require.NoError(t, err)

	// One identifier from each component forces the merge.
	merged, err := svc.ResolveIdentity(context.Background(), "george@hillvalley.edu", "717171")
	require.NoError(t, err)

	assert.Equal(t, elder.PrimaryContactID, merged.PrimaryContactID)
	assert.Equal(t, "george@hillvalley.edu", merged.Emails[0])
	assert.ElementsMatch(t, []string{"george@hillvalley.edu", "biffsucks@hillvalley.edu", "tannen@hillvalley.edu"}, merged.Emails)
	assert.ElementsMatch(t, []string{"919191", "717171"}, merged.PhoneNumbers)
	assert.Equal(t, 1, countPrimaries(t))

	// The younger primary and its old secondary now both point at the elder.
	rows, err := testDB.Query(
		"SELECT linked_id FROM contact WHERE link_precedence = 'secondary'")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var linkedID int64
		require.NoError(t, rows.Scan(&linkedID))
		assert.Equal(t, elder.PrimaryContactID, linkedID)
	}
	require.NoError(t, rows.Err())
}

func TestResolveIdentity_TransitiveComponentDiscovery(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	// Build a chain: (e1,p1) <- (e2,p1) <- (e2,p2). A lookup by p2 alone
	// must walk two hops of shared identifiers to reach the eldest record.
	root, err := svc.ResolveIdentity(context.Background(), "e1@hillvalley.edu", "100001")
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(context.Background(), "e2@hillvalley.edu", "100001")
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(context.Background(), "e2@hillvalley.edu", "100002")
	require.NoError(t, err)

	view, err := svc.ResolveIdentity(context.Background(), "", "100002")
	require.NoError(t, err)

	assert.Equal(t, root.PrimaryContactID, view.PrimaryContactID)
	assert.ElementsMatch(t, []string{"e1@hillvalley.edu", "e2@hillvalley.edu"}, view.Emails)
	assert.ElementsMatch(t, []string{"100001", "100002"}, view.PhoneNumbers)
	assert.Len(t, view.SecondaryContactIDs, 2)
}

func TestResolveIdentity_ConcurrentRequests_SinglePrimary(t *testing.T) {
	resetContacts(t)
	svc := service.GetIdentifyService()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ResolveIdentity(context.Background(), "race@hillvalley.edu", "555555")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, countPrimaries(t))
	assert.Equal(t, 1, countContacts(t))
}
