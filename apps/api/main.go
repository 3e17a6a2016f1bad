package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/blacklytning/alc/apps/api/echo"
	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/attendance"
	"github.com/blacklytning/alc/core/fee"
	"github.com/blacklytning/alc/core/student"
	"github.com/blacklytning/alc/core/user"
	emailsvc "github.com/blacklytning/alc/services/email"
	logsvc "github.com/blacklytning/alc/services/logger"
	"github.com/blacklytning/alc/storage/database"
	sqlxrepos "github.com/blacklytning/alc/storage/database/sqlx"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	stdRepo := sqlxrepos.NewStudentRepository(db)
	stdSvc := student.NewService(stdRepo)
	feeSvc := fee.NewService(sqlxrepos.NewFeeRepository(db), stdRepo, fee.DefaultSchedule(), mailSvc)
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), stdRepo, mailSvc)
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:       core.Conf.Server.Address,
			Logger:        logger,
			StudentSvc:    stdSvc,
			FeeSvc:        feeSvc,
			AttendanceSvc: attSvc,
			UserSvc:       usrSvc,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
