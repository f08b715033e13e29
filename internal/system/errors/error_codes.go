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

package errors

const errorPrefix = "IRS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	TRANSACTION_BEGIN = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while starting database transaction.",
	}

	TRANSACTION_COMMIT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while committing database transaction.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Advisory lock acquisition failed.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error generating advisory lock key.",
	}

	INSERT_CONTACT = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while inserting contact.",
	}

	FETCH_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while fetching contacts.",
	}

	RELINK_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while relinking contacts to primary.",
	}

	SNAPSHOT_COMPONENT = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while reading back the merged component.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "60001",
		Message: "Invalid request body.",
	}

	MISSING_IDENTIFIERS = ErrorMessage{
		Code:        errorPrefix + "60002",
		Message:     "At least one identifier is required.",
		Description: "Either email or phoneNumber must be a non-empty value.",
	}
)
