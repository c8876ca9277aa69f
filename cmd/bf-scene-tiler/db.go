package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/venicegeo/bf-scene-tiler/util"
)

const connectionStringEnv = "DATABASE_URL"
const vcapServicesEnv = "VCAP_SERVICES"
const pzPostgresService = "pz-postgres"

//getDbConnection opens a new catalog database connection.
func getDbConnection(ctx util.LogContext) (*sql.DB, error) {
	connStr := os.Getenv(connectionStringEnv)
	if connStr == "" {
		util.LogInfo(ctx, "No DB connection found in DATABASE_URL, checking VCAP_SERVICES")
		var err error
		if connStr, err = connStrFromVcapServices(); err != nil {
			return nil, err
		}
	}

	// XXX: pq expects SSL to be enabled if not explicitly disabled; we need to explicitly disable it
	dbURI, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("Could not parse DB connection string: %v", err)
	}
	params := dbURI.Query()
	params.Set("sslmode", "disable")
	dbURI.RawQuery = params.Encode()

	util.LogInfo(ctx, fmt.Sprintf("Creating database connection at: `%s`", dbURI.String()))
	db, err := sql.Open("postgres", dbURI.String())
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, err
}

//connStrFromVcapServices digs the bound postgres URI out of the Cloud Foundry
//service environment.
func connStrFromVcapServices() (string, error) {
	services, err := util.ParseVcapServices([]byte(os.Getenv(vcapServicesEnv)))
	if err != nil {
		return "", errors.New("Could not get DB connection from DATABASE_URL or VCAP_SERVICES (no valid VCAP_SERVICES found): " + err.Error())
	}
	service := services.FindServiceByName(pzPostgresService)
	if service == nil {
		return "", fmt.Errorf("Could not get DB connection from DATABASE_URL or VCAP_SERVICES ('%s' service not found); available services: %v",
			pzPostgresService, services.GetServiceNames())
	}
	connStr, err := service.Credentials.String("uri")
	if err != nil {
		return "", errors.New("Could not get DB connection from DATABASE_URL or VCAP_SERVICES (error getting URI string): " + err.Error())
	}
	return connStr, nil
}

var getDbConnectionFunc = getDbConnection
