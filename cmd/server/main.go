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

package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/wso2/identity-resolution-service/internal/system/config"
	"github.com/wso2/identity-resolution-service/internal/system/constants"
	"github.com/wso2/identity-resolution-service/internal/system/database/provider"
	logger "github.com/wso2/identity-resolution-service/internal/system/log"
	"github.com/wso2/identity-resolution-service/internal/system/managers"
)

const configFile = "repository/conf/deployment.yaml"
const schemaFile = "dbscripts/schema.sql"

func main() {
	irsHome := getIRSHome()

	envFiles, _ := filepath.Glob("config/*.env")
	_ = godotenv.Load(envFiles...)

	// Load the configuration file
	irsConfig, err := config.LoadConfig(irsHome, configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize runtime configurations.
	if err := config.InitializeIRSRuntime(irsHome, irsConfig); err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	// Initialize logger
	if err := logger.Init(irsConfig.Log.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database schema
	initDatabase(irsHome)

	serverAddr := fmt.Sprintf("%s:%d", irsConfig.Addr.Host, irsConfig.Addr.Port)
	mux := enableCORS(initMultiplexer())

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.GetLogger().Fatal("Failed to start listener", logger.Error(err))
	}

	logger.GetLogger().Info("Identity resolution service started", logger.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.GetLogger().Fatal("Failed to serve requests", logger.Error(err))
	}
}

// initDatabase applies the contact schema. The schema is idempotent, so a
// restart against an existing database is a no-op.
func initDatabase(irsHome string) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to the database", logger.Error(err))
	}
	defer dbClient.Close()

	if err := dbClient.InitDatabase(irsHome, schemaFile); err != nil {
		logger.GetLogger().Fatal("Failed to initialize database schema", logger.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.GetLogger().Error("Failed to register the services.", logger.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getIRSHome() string {

	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("irsHome", "", "Path to identity resolution service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			log.Fatalf("Failed to get current working directory: %v", dirErr)
		}
		projectHome = dir
	}

	return projectHome
}
