package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"seomonitor-backend/internal/components/config"
	"seomonitor-backend/internal/components/db"
)

const stateDir = "dev/.state"

const localConfig = `{
  database: { file: "dev/.state/seomonitor.db" },
  // rankings are simulated until an api key is put into .env as SERPAPI_API_KEY
  simulate: true,
  smtp: {
    server: "localhost",
    port: 1025,
    email_address: "seomonitor@localhost",
    sender_name: "SEO 監控系統",
  },
  dispatch: { default_recipient: "dev@localhost" },
  http: { port: 8000 },
}
`

func cmd(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fullCmd := name
	for _, a := range args {
		fullCmd += " "
		fullCmd += a
	}

	fmt.Printf("$ %s\n", fullCmd)
	err := cmd.Run()
	if err != nil {
		os.Exit(1)
	}
}

// startFakeSMTP runs a throwaway SMTP server, its web ui is on localhost:1080.
func startFakeSMTP() {
	cmd("docker", "rm", "-f", "seomonitor-fake-smtp")
	cmd(
		"docker", "run", "-d",
		"--name", "seomonitor-fake-smtp",
		"-p", "1025:1025", "-p", "1080:1080",
		"haravich/fake-smtp-server",
	)
}

func createDB() error {
	path := filepath.Join(stateDir, "seomonitor.db")
	_, err := os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	database, err := config.Database{File: path}.OpenDB(db.Schema)
	if err != nil {
		return err
	}
	return database.Close()
}

func writeLocalConfig() error {
	_, err := os.Stat("config.local.json5")
	if err == nil {
		fmt.Println("config.local.json5 already exists, leaving it alone")
		return nil
	}
	return os.WriteFile("config.local.json5", []byte(localConfig), 0666)
}

func create(recreate, smtp bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll(stateDir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll(stateDir, 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	err = createDB()
	if err != nil {
		return err
	}
	err = writeLocalConfig()
	if err != nil {
		return err
	}
	if smtp {
		startFakeSMTP()
	}
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	smtp := flag.Bool("smtp", true, "start a fake smtp server in docker")
	flag.Parse()

	err := create(*recreate, *smtp)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
