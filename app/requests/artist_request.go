package requests

// ResolveArtistsRequest request resolve một batch artists
type ResolveArtistsRequest struct {
	Artists []string `json:"artists" binding:"required,min=1"` // Danh sách tên artist
}

// InvalidateCacheRequest request xóa cache entries
type InvalidateCacheRequest struct {
	Artists []string `json:"artists" binding:"required,min=1"` // Danh sách tên artist cần xóa
}
