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
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/wso2/identity-resolution-service/internal/contact/model"
	"github.com/wso2/identity-resolution-service/internal/contact/store"
	"github.com/wso2/identity-resolution-service/internal/system/constants"
	irscontext "github.com/wso2/identity-resolution-service/internal/system/context"
	"github.com/wso2/identity-resolution-service/internal/system/database/lock"
	"github.com/wso2/identity-resolution-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-resolution-service/internal/system/errors"
	"github.com/wso2/identity-resolution-service/internal/system/log"
)

type IdentifyServiceInterface interface {
	ResolveIdentity(ctx context.Context, email string, phone string) (model.ConsolidatedContact, error)
}

// IdentifyService is the default implementation of the IdentifyServiceInterface.
type IdentifyService struct{}

// GetIdentifyService creates a new instance of IdentifyService.
func GetIdentifyService() IdentifyServiceInterface {

	return &IdentifyService{}
}

// ResolveIdentity consolidates the incoming contact fact into its identity
// component and returns the canonical view of that component.
//
// The whole read-decide-write sequence runs in one transaction. Advisory
// locks on the normalized input identifiers are taken before the seed read
// so that two concurrent requests for the same unknown identifiers cannot
// both create a primary; row locks on the matched set serialize overlapping
// merges.
func (is *IdentifyService) ResolveIdentity(ctx context.Context, email string, phone string) (model.ConsolidatedContact, error) {

	logger := log.GetLogger()
	traceID := irscontext.GetTraceID(ctx)

	if email == "" && phone == "" {
		return model.ConsolidatedContact{}, errors2.NewClientErrorWithTraceID(
			errors2.MISSING_IDENTIFIERS, http.StatusBadRequest, traceID)
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed to get database client for identity resolution"
		logger.Error(errorMsg, log.Error(err))
		return model.ConsolidatedContact{}, errors2.NewServerErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err, traceID)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := "Failed to begin transaction for identity resolution"
		logger.Error(errorMsg, log.Error(err))
		return model.ConsolidatedContact{}, errors2.NewServerErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.TRANSACTION_BEGIN.Code,
			Message:     errors2.TRANSACTION_BEGIN.Message,
			Description: errorMsg,
		}, err, traceID)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lock.AcquireTransactionLocks(tx, lock.NormalizeIdentifierKeys(email, phone)); err != nil {
		return model.ConsolidatedContact{}, err
	}

	seeds, err := store.GetContactsByEmailOrPhone(tx, valueSet(email), valueSet(phone))
	if err != nil {
		return model.ConsolidatedContact{}, err
	}

	if len(seeds) == 0 {
		return is.createPrimary(tx, &committed, email, phone, traceID)
	}

	component, err := expandComponent(tx, seeds)
	if err != nil {
		return model.ConsolidatedContact{}, err
	}
	if len(component) == 0 {
		// Seeds existed but the expansion came back empty. Should be
		// unreachable inside one transaction; survive it rather than fail.
		logger.Warn("Component expansion returned no contacts after seeds were found",
			log.String("email", email), log.String("phone", phone), log.String("trace_id", traceID))
		return is.createPrimary(tx, &committed, email, phone, traceID)
	}

	primary := selectPrimary(component)
	now := time.Now().UTC()

	relinkIDs := planRelink(component, primary)
	if len(relinkIDs) > 0 {
		if err := store.RelinkContactsToPrimary(tx, relinkIDs, primary.ID, now); err != nil {
			return model.ConsolidatedContact{}, err
		}
		logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeClient,
			TargetID:      fmt.Sprintf("%d", primary.ID),
			TargetType:    log.TargetTypeContact,
			ActionID:      log.ActionMergeComponents,
			TraceID:       traceID,
			Data:          map[string]interface{}{"relinked_contact_ids": relinkIDs},
		})
	}

	if needsNewContact(component, email, phone) {
		secondary := model.Contact{
			Email:          email,
			PhoneNumber:    phone,
			LinkPrecedence: constants.LinkPrecedenceSecondary,
			LinkedID:       primary.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		secondaryID, err := store.InsertContact(tx, secondary)
		if err != nil {
			return model.ConsolidatedContact{}, err
		}
		logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeClient,
			TargetID:      fmt.Sprintf("%d", secondaryID),
			TargetType:    log.TargetTypeContact,
			ActionID:      log.ActionCreateSecondaryContact,
			TraceID:       traceID,
			Data:          map[string]interface{}{"primary_contact_id": primary.ID},
		})
	}

	snapshot, err := store.GetComponentByPrimary(tx, primary.ID)
	if err != nil {
		return model.ConsolidatedContact{}, err
	}

	if err := commit(tx, traceID); err != nil {
		return model.ConsolidatedContact{}, err
	}
	committed = true

	return buildConsolidatedContact(primary, snapshot), nil
}

// createPrimary inserts a fresh primary contact and commits. Used when no
// existing contact matches the incoming fact.
func (is *IdentifyService) createPrimary(tx *sql.Tx, committed *bool, email, phone, traceID string) (model.ConsolidatedContact, error) {

	now := time.Now().UTC()
	contact := model.Contact{
		Email:          email,
		PhoneNumber:    phone,
		LinkPrecedence: constants.LinkPrecedencePrimary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	contactID, err := store.InsertContact(tx, contact)
	if err != nil {
		return model.ConsolidatedContact{}, err
	}

	if err := commit(tx, traceID); err != nil {
		return model.ConsolidatedContact{}, err
	}
	*committed = true

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      fmt.Sprintf("%d", contactID),
		TargetType:    log.TargetTypeContact,
		ActionID:      log.ActionCreatePrimaryContact,
		TraceID:       traceID,
	})

	contact.ID = contactID
	return buildConsolidatedContact(contact, []model.Contact{contact}), nil
}

// expandComponent discovers the full connected component reachable from the
// seed contacts. A seed may itself be a secondary sharing a different
// identifier with a record the first query never saw, so the identifier set
// is re-queried until it stops growing.
func expandComponent(tx *sql.Tx, seeds []model.Contact) ([]model.Contact, error) {

	contacts := seeds
	emails, phones := collectIdentifiers(contacts)

	for {
		matched, err := store.GetContactsByEmailOrPhone(tx, emails, phones)
		if err != nil {
			return nil, err
		}

		nextEmails, nextPhones := collectIdentifiers(matched)
		if len(nextEmails) == len(emails) && len(nextPhones) == len(phones) {
			return matched, nil
		}
		contacts = matched
		emails, phones = nextEmails, nextPhones
	}
}

func commit(tx *sql.Tx, traceID string) error {

	if err := tx.Commit(); err != nil {
		errorMsg := "Failed to commit identity resolution transaction"
		log.GetLogger().Error(errorMsg, log.Error(err))
		return errors2.NewServerErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.TRANSACTION_COMMIT.Code,
			Message:     errors2.TRANSACTION_COMMIT.Message,
			Description: errorMsg,
		}, err, traceID)
	}
	return nil
}

func valueSet(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}
