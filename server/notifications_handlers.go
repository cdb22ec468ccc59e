package server

import (
	"context"
	"net/http"

	"github.com/Abitto-org/user-app/api"
)

const contextKeyNotifRead ContextKey = "notif_read"

func withNotifTab(ctx context.Context, isRead bool) context.Context {
	return context.WithValue(ctx, contextKeyNotifRead, isRead)
}

func (s *Server) fetchNotificationsPage(ctx context.Context, page, limit int) ([]api.Notification, api.Pagination, error) {
	isRead, _ := ctx.Value(contextKeyNotifRead).(bool)
	result, err := s.api.Notifications(ctx, page, limit, isRead)
	if err != nil {
		return nil, api.Pagination{}, err
	}
	return result.Notifications, result.Pagination, nil
}

// NotificationsHandler serves the inbox, one tab at a time. `tab=read`
// switches to the read tab; each (meter, tab) pair accumulates its own
// pages.
func (s *Server) NotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		isRead := q.Get("tab") == "read"

		active, _ := ActiveMeter(r.Context())
		ctx := withNotifTab(r.Context(), isRead)

		key := "notifications|" + active.ID + "|unread"
		if isRead {
			key = "notifications|" + active.ID + "|read"
		}
		pager := s.notifications.Get(key)
		if q.Get("more") == "true" || len(pager.Items()) == 0 {
			if _, err := pager.LoadMore(ctx); err != nil {
				s.respondError(w, err)
				return
			}
		}

		unread, err := s.api.NotificationsUnreadCount(r.Context())
		if err != nil {
			s.logger.Warn().Err(err).Msg("fetching unread count")
		}

		s.respondData(w, http.StatusOK, map[string]any{
			"notifications": pager.Items(),
			"pagination":    pager.Pagination(),
			"hasMore":       pager.HasMore(),
			"unreadCount":   unread,
		})
	}
}

// MarkNotificationReadHandler marks one notification read and drops the
// accumulated pages so the tabs refetch in their new composition.
func (s *Server) MarkNotificationReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			s.respondFieldErrors(w, FieldErrors{"id": "notification id is required"})
			return
		}
		if err := s.api.MarkNotificationRead(r.Context(), id); err != nil {
			s.respondError(w, err)
			return
		}
		s.notifications.Reset()
		s.respondMessage(w, http.StatusOK, "notification marked as read")
	}
}

func (s *Server) MarkAllNotificationsReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.api.MarkAllNotificationsRead(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.notifications.Reset()
		s.respondData(w, http.StatusOK, map[string]any{"count": count})
	}
}
