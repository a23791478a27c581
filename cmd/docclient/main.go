// Command docclient drives the document generation flow against the portal
// backend from the terminal: it requests generation (or a fresh download
// link) for a solicitud and prints the signed URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gestion-contratistas/portal/internal/client/config"
	"github.com/gestion-contratistas/portal/internal/client/orchestrator"
	"github.com/gestion-contratistas/portal/internal/filex"
	"github.com/gestion-contratistas/portal/internal/flagx"
)

// saveArtifact fetches a signed URL into a staging directory and returns the
// local path.
func saveArtifact(url, name string) (string, error) {
	dir, err := filex.StagingDir("docclient")
	if err != nil {
		return "", err
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s", resp.Status)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", err
	}

	return path, nil
}

func main() {

	cfg := config.LoadConfig()

	args := flagx.FilterArgs(os.Args[1:], []string{"-action", "-id", "-save"})
	fs := flag.NewFlagSet("docclient", flag.ExitOnError)
	action := fs.String("action", "generate", "action to run: generate or download")
	id := fs.Int64("id", 0, "solicitud id")
	save := fs.Bool("save", false, "download the artifact into a staging directory instead of printing the URL")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("%v", err)
	}

	if *id == 0 {
		log.Fatal("a solicitud id is required (-id)")
	}
	if cfg.Token == "" {
		log.Fatal("a session token is required (-t)")
	}

	opener := func(url string) error {
		fmt.Println(url)
		return nil
	}
	if *save {
		opener = func(url string) error {
			path, err := saveArtifact(url, fmt.Sprintf("Solicitud_%d.zip", *id))
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		}
	}

	o := orchestrator.New(cfg.ServerBaseURL, cfg.Token,
		orchestrator.WithURLOpener(opener),
		orchestrator.WithStateCallback(func(s orchestrator.State) {
			log.Printf("state: %s", s)
		}),
		orchestrator.WithAffordanceCallback(func(a orchestrator.Affordance) {
			if a == orchestrator.AffordanceDownload {
				log.Printf("bundle ready, rerun with -action download for a fresh link")
			}
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	var res *orchestrator.Result

	switch *action {
	case "generate":
		res, err = o.GenerateDocuments(ctx, *id)
	case "download":
		res, err = o.DownloadDocument(ctx, *id)
	default:
		log.Fatalf("unknown action: %q", *action)
	}

	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("%s", res.Message)
}
