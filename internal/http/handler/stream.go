package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"mentorlink/internal/feed"
	"mentorlink/internal/http/middleware"
	"mentorlink/internal/logging"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	"mentorlink/internal/view"
)

// streamHeartbeat is how often a comment frame is written on an idle stream.
// Keeps proxies from closing the connection and bounds how long a gone
// client can stay undetected.
const streamHeartbeat = 25 * time.Second

// StreamDocuments streams the viewer's document collection over SSE. Each
// reconciliation of the live collection produces one `snapshot` frame
// holding the filtered collection; the filter parameters mirror the list
// endpoint except that category selects by name. Closing the connection
// tears down the subscription.
func StreamDocuments(docs repository.DocumentRepository, assignments repository.AssignmentRepository, hub *feed.Hub, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := middleware.ViewerFromCtx(c)

		criteria := view.DefaultCriteria()
		criteria.Query = c.Query("q")
		if cat := c.Query("category"); cat != "" {
			criteria.Category = cat
		}
		if st := c.Query("status"); st != "" {
			if st != view.All && !model.DocumentStatus(st).IsValid() {
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status")
			}
			criteria.Status = st
		}
		from, err := parseDateBound(c.Query("from"), false)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid from date")
		}
		to, err := parseDateBound(c.Query("to"), true)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid to date")
		}
		criteria.From, criteria.To = from, to

		scope, err := feedScope(c.UserContext(), assignments, viewer)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		// The stream outlives this handler, so it runs on its own context
		// carrying only the request ID.
		ctx, cancel := context.WithCancel(logging.ContextWithRequestID(context.Background(), requestIDFromCtx(c)))

		sub := hub.Subscribe(scope)
		sync := view.NewSynchronizer(docs, viewer, sub, log)
		if err := sync.Start(ctx); err != nil {
			sub.Close()
			cancel()
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		// The body stream writer runs after this handler returns; it must
		// not touch the fiber context.
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer sync.Stop()
			defer cancel()
			streamLoop(ctx, w, sync, criteria, streamHeartbeat)
			log.Debug(ctx, "document stream closed")
		}))
		return nil
	}
}

// feedScope derives the event scope matching the viewer's read scope. The
// mentor's roster is resolved once, at subscribe time.
func feedScope(ctx context.Context, assignments repository.AssignmentRepository, v repository.Viewer) (feed.Scope, error) {
	switch v.Role {
	case model.RoleAdmin:
		return feed.ScopeAll(), nil
	case model.RoleMentor:
		ids, err := assignments.StudentIDsForMentor(ctx, v.UserID)
		if err != nil {
			return feed.Scope{}, err
		}
		return feed.ScopeOwners(ids...), nil
	default:
		return feed.ScopeOwners(v.UserID), nil
	}
}

// streamLoop writes the initial snapshot, then one snapshot frame per
// collection change and a comment frame per heartbeat tick. It returns when
// the client goes away (write failure), ctx is canceled, or the feed shuts
// down.
func streamLoop(ctx context.Context, w *bufio.Writer, sync *view.Synchronizer, criteria view.Criteria, heartbeat time.Duration) {
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	// Seeding already signaled a change; drain it so the first snapshot is
	// not written twice.
	select {
	case <-sync.Changed():
	default:
	}

	if err := writeSnapshot(w, view.Apply(sync.Snapshot(), criteria)); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sync.Done():
			// The feed shut down underneath us; end the stream so the
			// client reconnects instead of watching a frozen collection.
			return
		case <-sync.Changed():
			if err := writeSnapshot(w, view.Apply(sync.Snapshot(), criteria)); err != nil {
				return
			}
		case <-ticker.C:
			if err := writeComment(w, "keep-alive"); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(w *bufio.Writer, docs []model.Document) error {
	payload, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, msg string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", msg); err != nil {
		return err
	}
	return w.Flush()
}
