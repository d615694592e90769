// Command google-auth runs the OAuth consent flow once and prints the refresh
// token for YOUTUBE_REFRESH_TOKEN or GDRIVE_REFRESH_TOKEN.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"aith/internal/config"
	"aith/internal/publish"
	"aith/internal/storage"
	"aith/internal/worker/util"
)

func main() {
	target := flag.String("target", "youtube", "which grant to request: youtube or gdrive")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	// Local callback on a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatal(err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	redirectURL := fmt.Sprintf("http://127.0.0.1:%d/callback", port)

	conf, envKey, err := oauthConfig(*target)
	if err != nil {
		log.Fatal(err)
	}
	conf.RedirectURL = redirectURL

	state := randomState()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code, err := callbackCode(r, state)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			errCh <- err
			return
		}
		fmt.Fprintln(w, "OK. You can close this window and return to the terminal.")
		codeCh <- code
	})

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		_ = srv.Serve(ln)
	}()

	// offline access + forced consent so a refresh token is issued
	authURL := conf.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	fmt.Print("\nOpen this URL in your browser:\n\n")
	fmt.Println(authURL)
	fmt.Println("\nWaiting for authorization on:", redirectURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		_ = srv.Close()
		log.Fatal(err)
	case <-time.After(3 * time.Minute):
		_ = srv.Close()
		log.Fatal("timed out waiting for authorization")
	}
	_ = srv.Close()

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		log.Fatal(err)
	}

	if strings.TrimSpace(tok.RefreshToken) == "" {
		fmt.Println("\nNo refresh_token was returned.")
		fmt.Println("Revoke the app's previous access in your Google Account and run this command again:")
		fmt.Println("https://myaccount.google.com/permissions")
		return
	}

	fmt.Printf("\n%s=%s\n", envKey, tok.RefreshToken)
}

func oauthConfig(target string) (*oauth2.Config, string, error) {
	switch target {
	case "youtube":
		return publish.YouTubeOAuthConfig(config.YouTube{
			ClientID:     util.MustEnv("YOUTUBE_CLIENT_ID"),
			ClientSecret: util.MustEnv("YOUTUBE_CLIENT_SECRET"),
		}), "YOUTUBE_REFRESH_TOKEN", nil
	case "gdrive":
		return storage.GDriveOAuthConfig(config.Storage{
			GDriveClientID:     util.MustEnv("GDRIVE_CLIENT_ID"),
			GDriveClientSecret: util.MustEnv("GDRIVE_CLIENT_SECRET"),
		}), "GDRIVE_REFRESH_TOKEN", nil
	default:
		return nil, "", fmt.Errorf("unknown target %q (want youtube or gdrive)", target)
	}
}

func callbackCode(r *http.Request, state string) (string, error) {
	q := r.URL.Query()
	if q.Get("state") != state {
		return "", fmt.Errorf("invalid state")
	}
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("auth error: %s", e)
	}
	code := q.Get("code")
	if code == "" {
		return "", fmt.Errorf("missing code")
	}
	return code, nil
}

func randomState() string {
	b := make([]byte, 18)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
