package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"

	"stock-hunter/pkg/api"
	"stock-hunter/pkg/catalog"
	"stock-hunter/pkg/config"
	"stock-hunter/pkg/license"
	"stock-hunter/pkg/models"
	"stock-hunter/pkg/notify"
	"stock-hunter/pkg/runner"
)

type productSource interface {
	Products(ctx context.Context) ([]models.Product, error)
}

type licenseGate interface {
	Check() (license.State, error)
}

type alertSender interface {
	Send(text string)
}

func main() {
	cfg := config.Load()

	store, err := catalog.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open product catalog: %v", err)
	}
	defer store.Close()

	var gate licenseGate
	if cfg.LicenseServerURL != "" {
		licenseStore, err := license.NewStore(cfg.LicenseDBPath)
		if err != nil {
			log.Fatalf("Failed to open license store: %v", err)
		}
		defer licenseStore.Close()
		gate = license.NewGate(cfg.LicenseServerURL, cfg.LicenseClientID, cfg.LicenseKey, licenseStore)
	}

	run := runner.New(runner.NewRegistry(cfg), cfg.Pincodes, cfg.CheckAllPincodes)
	notifier := notify.New(cfg.TelegramBotToken, cfg.TelegramChatID)

	http.HandleFunc("/check", checkHandler(cfg.CronSecret, gate, store, run, notifier))
	http.HandleFunc("/", docsHandler)

	if ip := getOutboundIP(); ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Port)
	}
	fmt.Printf("Trigger URL: http://localhost:%s/check?secret=...\n", cfg.Port)
	fmt.Printf("API Docs: http://localhost:%s/\n", cfg.Port)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           nil,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

// checkHandler runs one full stock-check pass: auth, license gate, catalog
// load, per-store checks, notification, JSON status back to the caller.
func checkHandler(secret string, gate licenseGate, source productSource, run *runner.Runner, sender alertSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("secret") != secret {
			api.WriteUnauthorized(w)
			return
		}

		if gate != nil {
			if state, err := gate.Check(); state != license.Valid {
				log.Printf("License gate blocked the run: %v", err)
				api.WriteError(w, http.StatusForbidden, err.Error())
				return
			}
		}

		products, err := source.Products(r.Context())
		if err != nil {
			log.Printf("Catalog load failed: %v", err)
			api.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		hits, summary := run.Run(products)

		if len(hits) > 0 {
			log.Printf("Found %d items in stock. Sending Telegram message.", len(hits))
			messages := make([]string, 0, len(hits))
			for _, hit := range hits {
				messages = append(messages, hit.Message())
			}
			sender.Send("🔥 *Stock Alert!*\n\n" + strings.Join(messages, "\n\n") + "\n\n" + summary.String())
		} else {
			log.Println("Nothing in stock this run.")
		}

		api.WriteOK(w, len(hits), summary.String())
	}
}

// docsHandler serves Scalar API docs on the root path.
func docsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Stock Hunter API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func getOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}
