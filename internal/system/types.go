package system

// VolumeInfo contains information about the volume holding a path
type VolumeInfo struct {
	Path       string
	Fstype     string
	TotalSize  uint64
	FreeSize   uint64
	UsedSize   uint64
	DeviceID   string
	IsWritable bool
}
