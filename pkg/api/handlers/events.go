package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/gorilla/mux"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// eventWriteTimeout bounds a single event write so one stuck
// connection cannot hold its subscription forever
const eventWriteTimeout = 10 * time.Second

func HandleEvents(broker *events.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID := mux.Vars(r)["communityID"]

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Error("failed to accept WebSocket connection: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "event feed error")

		ch, cancel := broker.Subscribe(communityID)
		defer cancel()

		log.Debug("event feed subscribed for community %s", communityID)

		// the feed is write-only, CloseRead watches for the client going away
		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case event := <-ch:
				writeCtx, cancelWrite := context.WithTimeout(ctx, eventWriteTimeout)
				err := wsjson.Write(writeCtx, conn, event)
				cancelWrite()
				if err != nil {
					log.Debug("failed to write event to WebSocket connection: %v", err)
					return
				}
			}
		}
	}
}
