package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"family_expenses/internal/api/handlers/summary"
	mw "family_expenses/internal/api/middlewares"
	"family_expenses/internal/api/routers"
	"family_expenses/internal/notify"
	"family_expenses/internal/repositories"
	"family_expenses/internal/repositories/sqlconnect"
	"family_expenses/internal/settlement"
	"family_expenses/pkg/cron"
	"family_expenses/pkg/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		return
	}

	err = sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	utils.InitLogger()

	loc := time.UTC
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			utils.Logger.Fatalf("invalid TIMEZONE %q: %v", tz, err)
		}
	}

	db := sqlconnect.DB
	engine := settlement.NewEngine(
		repositories.NewExpenseStore(db),
		repositories.NewGroupDirectory(db),
		repositories.NewClosureStore(db),
		loc,
		utils.Logger,
	)
	engine.SetNotifier(notify.NewEmailNotifier(db, engine, utils.Logger))
	summary.Engine = engine

	cron.StartCronJob(db, loc)

	port := os.Getenv("SERVER_PORT")

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/users/login")

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:      port,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	fmt.Println("Server is running on port", port)
	err = server.ListenAndServeTLS(cert, key)
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}

}
