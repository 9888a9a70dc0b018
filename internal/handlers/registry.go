package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	ApplicationHandler      *ApplicationHandler
	AdminApplicationHandler *AdminApplicationHandler
	AuthHandler             *AuthHandler
	CampaignHandler         *CampaignHandler
	FrameHandler            *FrameHandler
}
