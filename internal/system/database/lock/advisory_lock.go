/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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
	"database/sql"
	"fmt"
	"hash/fnv" // For hashing string keys to integers
	"sort"
	"strings"

	"github.com/wso2/identity-resolution-service/internal/system/database/scripts"
	"github.com/wso2/identity-resolution-service/internal/system/errors"
	"github.com/wso2/identity-resolution-service/internal/system/log"
)

// NormalizeIdentifierKeys builds the advisory lock key set for a resolution
// request. Keys are namespaced per identifier kind, lowercased for emails,
// deduplicated, and sorted so that every request acquires locks in the same
// order. Ordered acquisition keeps overlapping requests deadlock free.
func NormalizeIdentifierKeys(email, phone string) []string {

	seen := map[string]bool{}
	var keys []string
	if email != "" {
		k := "email:" + strings.ToLower(strings.TrimSpace(email))
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if phone != "" {
		k := "phone:" + strings.TrimSpace(phone)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// AcquireTransactionLocks takes a transaction-scoped advisory lock for every
// key. The locks are released automatically when the transaction commits or
// rolls back, so there is no release path to get wrong.
func AcquireTransactionLocks(tx *sql.Tx, keys []string) error {

	logger := log.GetLogger()
	query := scripts.AcquireTransactionLock["postgres"]
	for _, key := range keys {
		lockID, err := generateLockKey(key)
		if err != nil {
			return err
		}
		logger.Debug(fmt.Sprintf("Acquiring advisory lock for key: %s", key), log.Int64("lock_id", lockID))

		if _, err := tx.Exec(query, lockID); err != nil {
			errorMsg := fmt.Sprintf("Failed to execute pg_advisory_xact_lock for key: %s", key)
			logger.Error(errorMsg, log.Error(err))
			return errors.NewServerError(errors.ErrorMessage{
				Code:        errors.LOCK_ACQUIRE.Code,
				Message:     errors.LOCK_ACQUIRE.Message,
				Description: errorMsg,
			}, err)
		}
	}
	return nil
}

// PostgreSQL advisory locks use bigint or two integers. We'll use a single bigint.
func generateLockKey(key string) (int64, error) {

	logger := log.GetLogger()
	h := fnv.New64a() // FNV-1a is a good general-purpose non-cryptographic hash
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
		return 0, serverError
	}
	return int64(h.Sum64()), nil // Cast to int64 for pg_advisory_xact_lock
}
