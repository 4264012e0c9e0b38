package tray

// Status bar template icons, 18x18 RGBA PNG.
var (
	iconIdle = []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x12, 0x00, 0x00, 0x00, 0x12, 0x08, 0x06, 0x00, 0x00, 0x00, 0x56, 0xce, 0x8e,
		0x57, 0x00, 0x00, 0x00, 0x3d, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x31, 0xf8,
		0x4f, 0x00, 0x53, 0xc5, 0x10, 0xa2, 0x0c, 0x23, 0x46, 0x21, 0x41, 0x35, 0x24, 0x39, 0x1b, 0x97,
		0xfa, 0xff, 0x14, 0x18, 0xf4, 0x9f, 0x12, 0xd7, 0xe0, 0xd4, 0x37, 0x6a, 0xd0, 0x00, 0x18, 0x44,
		0x71, 0xf4, 0x53, 0x2d, 0x41, 0x52, 0x35, 0x8b, 0x50, 0x35, 0xd3, 0x52, 0xb5, 0x18, 0x21, 0x0b,
		0x00, 0x00, 0xb9, 0x46, 0x5b, 0xa5, 0xdd, 0x12, 0xeb, 0x2a, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45,
		0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
	iconStarting = []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x12, 0x00, 0x00, 0x00, 0x12, 0x08, 0x06, 0x00, 0x00, 0x00, 0x56, 0xce, 0x8e,
		0x57, 0x00, 0x00, 0x00, 0x46, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x31, 0xf8,
		0x4f, 0x00, 0x53, 0xc5, 0x10, 0xa2, 0x0c, 0x23, 0x46, 0x21, 0x41, 0x35, 0xd8, 0x24, 0xf1, 0x69,
		0xc0, 0x2a, 0x87, 0x6e, 0x0b, 0x31, 0xde, 0xc0, 0x2a, 0x8f, 0x2e, 0xf0, 0x9f, 0x44, 0x6f, 0x62,
		0x15, 0xf8, 0x3f, 0x6a, 0x10, 0x03, 0x5d, 0x02, 0x9b, 0xe2, 0xe8, 0xa7, 0x5a, 0x82, 0xa4, 0x6a,
		0x16, 0xa1, 0x6a, 0xa6, 0xa5, 0x6a, 0x31, 0x42, 0x16, 0x00, 0x00, 0x1b, 0x9a, 0x83, 0x7d, 0x34,
		0xda, 0x6e, 0xb1, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
	iconRunning = []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x12, 0x00, 0x00, 0x00, 0x12, 0x08, 0x06, 0x00, 0x00, 0x00, 0x56, 0xce, 0x8e,
		0x57, 0x00, 0x00, 0x00, 0x47, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x31, 0xf8,
		0x4f, 0x00, 0x53, 0xc5, 0x10, 0xa2, 0x0c, 0x23, 0x46, 0x21, 0x41, 0x35, 0xd8, 0x24, 0xf1, 0xb9,
		0x02, 0xab, 0x61, 0xe8, 0x8a, 0x89, 0xf1, 0x16, 0x56, 0x0b, 0xd0, 0x05, 0x88, 0x0d, 0x1f, 0xbc,
		0x06, 0x91, 0x12, 0xd8, 0x23, 0xd5, 0x20, 0xaa, 0x04, 0x36, 0xc5, 0xd1, 0x4f, 0xb5, 0x04, 0x49,
		0xd5, 0x2c, 0x42, 0xd5, 0x4c, 0x4b, 0xd5, 0x62, 0x84, 0x2c, 0x00, 0x00, 0xd0, 0x62, 0xab, 0x55,
		0x18, 0x61, 0xfb, 0xfd, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
	iconErrored = []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x12, 0x00, 0x00, 0x00, 0x12, 0x08, 0x06, 0x00, 0x00, 0x00, 0x56, 0xce, 0x8e,
		0x57, 0x00, 0x00, 0x00, 0x4f, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x31, 0xf8,
		0x4f, 0x00, 0x53, 0xc5, 0x10, 0xa2, 0x0c, 0x23, 0x46, 0x21, 0x41, 0x35, 0x24, 0x39, 0x1b, 0x97,
		0x7a, 0x74, 0x5b, 0x70, 0x19, 0x8a, 0x4d, 0xcd, 0x7f, 0x7c, 0xa6, 0xff, 0x27, 0x51, 0x0c, 0xaf,
		0x33, 0x89, 0x09, 0x64, 0xa2, 0x0c, 0x62, 0x20, 0x22, 0xa6, 0xe8, 0x6b, 0x10, 0x55, 0xbc, 0x46,
		0x71, 0x60, 0x53, 0x1c, 0xfd, 0x54, 0x4b, 0x90, 0x54, 0xcd, 0x22, 0x54, 0xcd, 0xb4, 0x54, 0x2d,
		0x46, 0xc8, 0x02, 0x00, 0xc4, 0xd4, 0x83, 0x7d, 0x6b, 0xd3, 0x2a, 0xe0, 0x00, 0x00, 0x00, 0x00,
		0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
)
