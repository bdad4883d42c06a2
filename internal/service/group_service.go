package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/auth"
	"github.com/mmynk/splitpocket/internal/calculator"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/storage"
	"github.com/mmynk/splitpocket/internal/validation"
	"github.com/mmynk/splitpocket/internal/watch"
	"github.com/mmynk/splitpocket/pkg/api"
	"github.com/mmynk/splitpocket/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store   storage.Store
	watcher *watch.Watcher
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, watcher *watch.Watcher) *GroupService {
	return &GroupService{store: store, watcher: watcher}
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
		"user_id", sess.UserID,
	)

	name, err := validation.GroupName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	group := &models.Group{
		Name:            name,
		CreatedByUserID: sess.UserID,
		MemberIDs:       validation.MemberIDs(sess.UserID, req.Msg.MemberIDs),
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group the caller belongs to, with the caller's balance.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}

	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, sess.UserID)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListMyGroups returns the caller's groups, newest first.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("ListMyGroups", err)
	}

	groups, err := s.store.ListGroupsForMember(ctx, sess.UserID)
	if err != nil {
		return nil, toConnectError("ListMyGroups", err)
	}

	slog.Info("ListMyGroups successful", "user_id", sess.UserID, "count", len(groups))
	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: toAPIGroups(groups)}), nil
}

// AddMembers merges the selected users into a group's members. An empty
// selection succeeds without touching the store and returns no group.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("AddMembers", err)
	}

	group, err := s.addMembers(ctx, sess, req.Msg.GroupID, req.Msg.UserIDs)
	if err != nil {
		return nil, toConnectError("AddMembers", err)
	}

	resp := &api.AddMembersResponse{}
	if group != nil {
		resp.Group = toAPIGroup(group)
	}
	return connect.NewResponse(resp), nil
}

func (s *GroupService) addMembers(ctx context.Context, sess auth.Session, groupID string, selected []string) (*models.Group, error) {
	userIDs := validation.UserIDs(selected)
	if len(userIDs) == 0 {
		return nil, nil
	}

	slog.Info("AddMembers request received",
		"group_id", groupID,
		"members_count", len(userIDs),
		"user_id", sess.UserID,
	)

	if _, err := memberGroup(ctx, s.store, groupID, sess.UserID); err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, apperr.Persistence(err)
	}

	group, err := s.store.GetGroup(ctx, groupID, sess.UserID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	slog.Info("Members added", "group_id", groupID, "members", len(group.MemberIDs))
	return group, nil
}

// GetBalanceSummary totals the caller's balances across all their groups.
func (s *GroupService) GetBalanceSummary(ctx context.Context, req *connect.Request[api.GetBalanceSummaryRequest]) (*connect.Response[api.GetBalanceSummaryResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("GetBalanceSummary", err)
	}

	groups, err := s.store.ListGroupsForMember(ctx, sess.UserID)
	if err != nil {
		return nil, toConnectError("GetBalanceSummary", err)
	}

	summary := calculator.AggregateGroups(groups)
	slog.Debug("Balance summary computed",
		"user_id", sess.UserID,
		"groups", len(groups),
		"net", summary.Net,
	)
	return connect.NewResponse(&api.GetBalanceSummaryResponse{Summary: toAPISummary(summary)}), nil
}

// WatchBalances streams the caller's groups and balance summary, once
// immediately and again whenever any of the groups changes.
func (s *GroupService) WatchBalances(ctx context.Context, req *connect.Request[api.WatchBalancesRequest], stream *connect.ServerStream[api.WatchBalancesResponse]) error {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return toConnectError("WatchBalances", err)
	}

	sub, err := s.watcher.WatchGroups(ctx, sess.UserID)
	if err != nil {
		return toConnectError("WatchBalances", err)
	}
	defer sub.Cancel()

	for snap := range sub.C() {
		err := stream.Send(&api.WatchBalancesResponse{
			Summary: toAPISummary(calculator.AggregateGroups(snap.Docs)),
			Groups:  toAPIGroups(snap.Docs),
			Changes: toAPIChanges(snap.Changes, func(g models.Group) string { return g.ID }),
		})
		if err != nil {
			return err
		}
	}

	if err := sub.Err(); err != nil {
		return toConnectError("WatchBalances", err)
	}
	return nil
}

// memberGroup loads a group as seen by userID and checks that userID belongs to it.
func memberGroup(ctx context.Context, store storage.GroupStore, groupID, userID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, apperr.PermissionDenied("not a member of this group")
	}
	return group, nil
}
