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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-resolution-service/internal/contact/handler"
)

// ContactService handles routing for identity resolution endpoints.
type ContactService struct {
	identifyHandler *handler.IdentifyHandler
}

// NewContactService creates a new ContactService instance.
func NewContactService() *ContactService {
	return &ContactService{
		identifyHandler: handler.NewIdentifyHandler(),
	}
}

// Route dispatches identity resolution requests.
func (s *ContactService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/identify":
		s.identifyHandler.HandleIdentify(w, r)

	default:
		http.NotFound(w, r)
	}
}
