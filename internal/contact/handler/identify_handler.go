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

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wso2/identity-resolution-service/internal/contact/model"
	"github.com/wso2/identity-resolution-service/internal/contact/provider"
	"github.com/wso2/identity-resolution-service/internal/system/constants"
	irscontext "github.com/wso2/identity-resolution-service/internal/system/context"
	errors2 "github.com/wso2/identity-resolution-service/internal/system/errors"
	"github.com/wso2/identity-resolution-service/internal/system/log"
	"github.com/wso2/identity-resolution-service/internal/system/utils"
)

type IdentifyHandler struct{}

func NewIdentifyHandler() *IdentifyHandler {

	return &IdentifyHandler{}
}

// HandleIdentify consolidates an incoming contact fact and returns the
// canonical view of the matching identity.
func (ih *IdentifyHandler) HandleIdentify(w http.ResponseWriter, r *http.Request) {

	traceID := irscontext.GetOrGenerateTraceID(r.Context())
	ctx := irscontext.WithTraceID(r.Context(), traceID)

	var identifyRequest model.IdentifyRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&identifyRequest); err != nil {
		clientError := errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, constants.IdentifyResource),
		}, http.StatusBadRequest, traceID)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	identifyService := provider.NewContactProvider().GetIdentifyService()
	consolidated, err := identifyService.ResolveIdentity(ctx,
		identifyRequest.NormalizedEmail(), identifyRequest.NormalizedPhone())
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      fmt.Sprintf("%d", consolidated.PrimaryContactID),
		TargetType:    log.TargetTypeIdentity,
		ActionID:      log.ActionResolveIdentity,
		TraceID:       traceID,
		Data: map[string]interface{}{
			"secondary_contact_count": len(consolidated.SecondaryContactIDs),
		},
	})

	utils.RespondJSON(w, http.StatusOK, model.IdentifyResponse{Contact: consolidated})
}
