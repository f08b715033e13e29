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
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/wso2/identity-resolution-service/internal/system/config"
	"github.com/wso2/identity-resolution-service/internal/system/database/provider"
	"github.com/wso2/identity-resolution-service/internal/system/log"
	"github.com/wso2/identity-resolution-service/test/setup"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()
	os.Setenv("TEST_MODE", "true")

	conf := config.Config{
		Log: config.LogConfig{
			LogLevel: "DEBUG",
		},
	}
	config.OverrideIRSRuntime(conf)
	_ = log.Init("DEBUG")

	pg, err := setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}
	testDB = pg.DB

	provider.SetTestDB(pg.DB)

	schemaFile := filepath.Join("..", "..", "dbscripts", "schema.sql")
	schemaBytes, err := os.ReadFile(schemaFile)
	if err != nil {
		fmt.Println("Failed to read schema file:", err)
		os.Exit(1)
	}
	if _, err := pg.DB.Exec(string(schemaBytes)); err != nil {
		fmt.Println("Failed to create tables from schema:", err)
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Terminate container manually after tests complete
	_ = pg.Container.Terminate(ctx)

	os.Exit(code)
}

// resetContacts wipes the contact table between scenarios.
func resetContacts(t *testing.T) {
	t.Helper()
	if _, err := testDB.Exec("TRUNCATE contact RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("failed to reset contact table: %v", err)
	}
}
