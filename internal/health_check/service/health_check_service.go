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

package service

import (
	"errors"

	"github.com/wso2/identity-resolution-service/internal/system/database/provider"
	"github.com/wso2/identity-resolution-service/internal/system/database/scripts"
	"github.com/wso2/identity-resolution-service/internal/system/log"
)

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness() error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct{}

// GetHealthCheckService returns a new instance.
func GetHealthCheckService() HealthCheckServiceInterface {
	return &HealthCheckService{}
}

// CheckReadiness verifies that the contact database is reachable.
func (hcs *HealthCheckService) CheckReadiness() error {

	logger := log.GetLogger()
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.Warn("Readiness check failed to create database client", log.Error(err))
		return errors.New("database is unreachable")
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteQuery(scripts.PingDatabase["postgres"]); err != nil {
		logger.Warn("Readiness check query failed", log.Error(err))
		return errors.New("database is unreachable")
	}
	return nil
}
