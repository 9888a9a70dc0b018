package config

// UploadLimits - ограничения на файлы рамок и фото участников
type UploadLimits struct {
	MaxFrameSize   int64
	MaxPhotoSize   int64
	MaxPhotoPixels int
	FrameTypes     []string
	PhotoTypes     []string
}

var DefaultUploadLimits = UploadLimits{
	MaxFrameSize:   10 * 1024 * 1024, // 10MB
	MaxPhotoSize:   15 * 1024 * 1024, // 15MB
	MaxPhotoPixels: 40_000_000,
	// рамке нужен альфа-канал, поэтому только PNG
	FrameTypes: []string{"image/png"},
	PhotoTypes: []string{"image/jpeg", "image/png"},
}
