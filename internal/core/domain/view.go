package domain

// DashboardView lists which sections, columns and actions a viewer gets on a
// dashboard. It depends only on the viewer's role and whether the dashboard
// is their own.
type DashboardView struct {
	ShowActiveProjects bool `json:"showActiveProjects"`
	ShowCustomerColumn bool `json:"showCustomerColumn"`
	ShowExecutorColumn bool `json:"showExecutorColumn"`
	RowsClickable      bool `json:"rowsClickable"`
	ShowArchiveLink    bool `json:"showArchiveLink"`
	ShowPublicRating   bool `json:"showPublicRating"`
	ShowProfileLinks   bool `json:"showProfileLinks"`
	ShowPostsLink      bool `json:"showPostsLink"`
	ShowProjectSearch  bool `json:"showProjectSearch"`
	CanUploadAvatar    bool `json:"canUploadAvatar"`
	CanLogout          bool `json:"canLogout"`
}

// ViewPolicy computes the dashboard layout for a viewer.
func ViewPolicy(viewerRole Role, isOwnProfile bool) DashboardView {
	publicView := viewerRole == RoleExecutor || !isOwnProfile
	return DashboardView{
		ShowActiveProjects: isOwnProfile,
		ShowCustomerColumn: viewerRole != RoleCustomer,
		ShowExecutorColumn: viewerRole != RoleExecutor,
		RowsClickable:      viewerRole == RoleCustomer && isOwnProfile,
		ShowArchiveLink:    isOwnProfile,
		ShowPublicRating:   publicView,
		ShowProfileLinks:   publicView,
		ShowPostsLink:      !publicView,
		ShowProjectSearch:  viewerRole == RoleExecutor && isOwnProfile,
		CanUploadAvatar:    isOwnProfile,
		CanLogout:          isOwnProfile,
	}
}
