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

package constants

// ContextKey is the type used for request-scoped context values.
type ContextKey string

const (
	// TraceIDContextKey carries the per-request trace id.
	TraceIDContextKey ContextKey = "traceId"
)

const (
	// ApiBasePath is the base path all API endpoints are mounted under.
	ApiBasePath = "/api/v1"
)

// Link precedence values for contact records. Exactly one contact per
// connected component is primary; every other contact links to it.
const (
	LinkPrecedencePrimary   = "primary"
	LinkPrecedenceSecondary = "secondary"
)

// Resource names used in request decoding diagnostics.
const (
	IdentifyResource = "identify"
)
