package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mapsocial/mapsocial-go/config"
	"github.com/mapsocial/mapsocial-go/internal/api"
	"github.com/mapsocial/mapsocial-go/internal/drawer"
	"github.com/mapsocial/mapsocial-go/internal/media"
	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/internal/registry"
	"github.com/mapsocial/mapsocial-go/internal/selection"
	"github.com/mapsocial/mapsocial-go/internal/session"
	"github.com/mapsocial/mapsocial-go/internal/viewport"
)

// logMarkers stands in for the map widget's marker layer.
type logMarkers struct{}

func (logMarkers) ClearMarkers() { log.Println("[Map]: markers cleared") }
func (logMarkers) PlaceMarker(loc model.Location) {
	log.Printf("[Map]: marker %d %q (%s) at %.5f,%.5f", loc.ID, loc.Title, loc.Kind, loc.Lat, loc.Lon)
}

func main() {
	cfg := config.New()

	store := session.NewStore(cfg.CredentialsFile)
	client, err := api.New(cfg.APIBaseURL, store, cfg.HTTPTimeout)
	if err != nil {
		log.Fatalln("failed to build API client:", err)
	}

	var uploader media.Uploader
	if cfg.UploadBackend == "cloudinary" {
		uploader, err = media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatalln("failed to initialize cloudinary uploader:", err)
		}
	} else {
		uploader = media.NewAPIUploader(client)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := viewport.NewTracker()
	reg := registry.New(client, logMarkers{})
	reg.Kind = cfg.KindFilter
	sel := selection.New()
	dr := drawer.New(client, uploader)

	tracker.OnSettled(func(b viewport.Bounds) {
		go reg.Refresh(ctx, &b)
	})
	reg.OnCreate(func(loc model.Location) {
		sel.Pick(loc)
	})
	sel.OnActivate(func(loc model.Location) {
		dr.Activate(ctx, loc)
	})
	sel.OnClose(func() {
		dr.Close()
	})
	// A sign-out invalidates everything loaded under the old identity:
	// tear down the drawer via the selection and refetch the location set
	// for the current viewport.
	store.OnSignOut(func(gen uint64) {
		log.Printf("[Session]: identity reset (generation %d), reloading state", gen)
		sel.Close()
		if b, ok := tracker.Current(); ok {
			go reg.Refresh(ctx, &b)
		} else {
			go reg.Refresh(ctx, nil)
		}
	})

	go tracker.Run(ctx)

	if err := client.Health(ctx); err != nil {
		log.Println("[API]: health check failed:", err)
	}

	// Initial unscoped load before the first map gesture.
	go reg.Refresh(ctx, nil)

	go repl(ctx, tracker, reg, sel, dr, client)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan
	log.Println("Shutting down...")
}

// repl drives the engine from stdin in place of a real map UI.
//
//	move W,S,E,N        settle the viewport at a bounding box
//	pick ID             open the drawer for a displayed location
//	close               close the drawer
//	signin EMAIL PASS   exchange credentials for a token
//	signout             clear the stored identity
//	pin LAT LON TITLE   create a location at a coordinate
//	post CONTENT        post to the active location
func repl(ctx context.Context, tracker *viewport.Tracker, reg *registry.Registry, sel *selection.Controller, dr *drawer.Drawer, client *api.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "move":
			if len(fields) != 2 {
				fmt.Println("usage: move W,S,E,N")
				continue
			}
			bounds, err := viewport.ParseBounds(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			tracker.MoveEnd(bounds)
		case "pick":
			if len(fields) != 2 {
				fmt.Println("usage: pick ID")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Println(err)
				continue
			}
			for _, loc := range reg.Locations() {
				if loc.ID == id {
					sel.Pick(loc)
					break
				}
			}
		case "close":
			sel.Close()
		case "signin":
			if len(fields) != 3 {
				fmt.Println("usage: signin EMAIL PASSWORD")
				continue
			}
			if err := client.SignIn(ctx, fields[1], fields[2]); err != nil {
				fmt.Println("sign-in failed:", err)
			}
		case "signout":
			// The store's OnSignOut hook handles the state reload.
			if err := client.SessionStore().SignOut(); err != nil {
				fmt.Println("sign-out failed:", err)
			}
		case "pin":
			if len(fields) < 4 {
				fmt.Println("usage: pin LAT LON TITLE...")
				continue
			}
			lat, latErr := strconv.ParseFloat(fields[1], 64)
			lon, lonErr := strconv.ParseFloat(fields[2], 64)
			if latErr != nil || lonErr != nil {
				fmt.Println("bad coordinate")
				continue
			}
			_, err := reg.Create(ctx, model.CreateLocationRequest{
				Title: strings.Join(fields[3:], " "),
				Kind:  model.KindCity,
				Lat:   lat,
				Lon:   lon,
			})
			if api.IsAuthenticationRequired(err) {
				fmt.Println("sign in first to create a location")
			} else if err != nil {
				fmt.Println("create failed:", err)
			}
		case "post":
			if len(fields) < 2 {
				fmt.Println("usage: post CONTENT...")
				continue
			}
			_, err := dr.SubmitPost(ctx, strings.Join(fields[1:], " "), nil, nil)
			if api.IsAuthenticationRequired(err) {
				fmt.Println("sign in first to post")
			} else if err != nil {
				fmt.Println("post failed:", err)
			}
		case "quit":
			p, _ := os.FindProcess(os.Getpid())
			_ = p.Signal(os.Interrupt)
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}
