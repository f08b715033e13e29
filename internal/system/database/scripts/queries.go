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

package scripts

// Rows matched during resolution are locked so that two in-flight
// resolutions touching the same component serialize on the row set.
var GetContactsByEmailOrPhone = map[string]string{
	"postgres": `SELECT contact_id, email, phone_number, link_precedence, linked_id, created_at, updated_at
FROM contact WHERE email = ANY($1) OR phone_number = ANY($2)
ORDER BY created_at, contact_id
FOR UPDATE`,
}

var InsertContact = map[string]string{
	"postgres": `INSERT INTO contact (email, phone_number, link_precedence, linked_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING contact_id`,
}

var RelinkContactsToPrimary = map[string]string{
	"postgres": `UPDATE contact SET link_precedence = 'secondary', linked_id = $1, updated_at = $2
WHERE contact_id = ANY($3)`,
}

var GetComponentByPrimary = map[string]string{
	"postgres": `SELECT contact_id, email, phone_number, link_precedence, linked_id, created_at, updated_at
FROM contact WHERE contact_id = $1 OR linked_id = $1
ORDER BY created_at, contact_id`,
}

var AcquireTransactionLock = map[string]string{
	"postgres": `SELECT pg_advisory_xact_lock($1)`,
}

var PingDatabase = map[string]string{
	"postgres": `SELECT 1 AS alive`,
}
