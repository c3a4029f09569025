package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

const (
	SchemaName = "dfs"

	// Request commands
	CommandPing     = "ping"
	CommandList     = "list"
	CommandSearch   = "search"
	CommandUpload   = "upload"
	CommandDownload = "download"
	CommandPreview  = "preview"
	CommandDelete   = "delete"

	// Response types
	TypePong         = "pong"
	TypeList         = "list"
	TypeReady        = "ready"
	TypePreviewReady = "preview_ready"
	TypeUploadResult = "upload_result"
	TypeDeleteResult = "delete_result"
	TypeError        = "error"
)

// Error tokens carried in the payload of an "error" response. The spelling
// of each token is part of the wire contract.
const (
	ErrInvalidPath          = "Invalid path"
	ErrFileNotFound         = "file_not_found"
	ErrFileTypeMismatch     = "file_type_mismatch"
	ErrShaMismatch          = "sha_mismatch"
	ErrUnknownControlType   = "unknown_control_type"
	ErrServerOffline        = "server_offline"
	ErrServerTimeout        = "server_timeout"
	ErrServerError          = "server_error"
	ErrServerNoResponse     = "server_no_response"
	ErrPreviewUnavailable   = "preview_unavailable"
	ErrFileTypeNotSupported = "File type not supported"
	ErrQueryRequired        = "query_required"

	// ErrUnknownCommandPrefix is followed by the offending command token.
	ErrUnknownCommandPrefix = "unknown_command: "
)

// Preview payload types
const (
	PreviewImage = "image"
	PreviewText  = "text"
	PreviewAudio = "audio"
	PreviewVideo = "video"
	PreviewTree  = "tree"
)
