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

package lock

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-resolution-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func TestNormalizeIdentifierKeys_NamespacedAndSorted(t *testing.T) {
	keys := NormalizeIdentifierKeys("Marty@HillValley.edu", "123456")

	require.Len(t, keys, 2)
	assert.Equal(t, []string{"email:marty@hillvalley.edu", "phone:123456"}, keys)
}

func TestNormalizeIdentifierKeys_SingleIdentifier(t *testing.T) {
	assert.Equal(t, []string{"phone:123456"}, NormalizeIdentifierKeys("", "123456"))
	assert.Equal(t, []string{"email:a@acme.org"}, NormalizeIdentifierKeys("a@acme.org", ""))
}

func TestNormalizeIdentifierKeys_StableAcrossInputOrder(t *testing.T) {
	// Both requests must acquire locks in the same order to stay deadlock free.
	a := NormalizeIdentifierKeys("zz@acme.org", "111")
	b := NormalizeIdentifierKeys("zz@acme.org", "111")
	assert.Equal(t, a, b)
}

func TestGenerateLockKey_Deterministic(t *testing.T) {
	first, err := generateLockKey("email:a@acme.org")
	require.NoError(t, err)
	second, err := generateLockKey("email:a@acme.org")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := generateLockKey("phone:123")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
