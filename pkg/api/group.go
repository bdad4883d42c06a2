package api

// CreateGroupRequest creates a group. The caller is always a member.
type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// AddMembersRequest merges UserIDs into a group's members.
type AddMembersRequest struct {
	GroupID string   `json:"groupId"`
	UserIDs []string `json:"userIds"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type GetBalanceSummaryRequest struct{}

type GetBalanceSummaryResponse struct {
	Summary *BalanceSummary `json:"summary"`
}

type WatchBalancesRequest struct{}

// WatchBalancesResponse is the caller's summary recomputed for one snapshot
// of their groups.
type WatchBalancesResponse struct {
	Summary *BalanceSummary `json:"summary"`
	Groups  []*Group        `json:"groups"`
	Changes []Change        `json:"changes,omitempty"`
}
