package lastfm

// ImageSize is one of the artwork sizes an entity can carry.
type ImageSize int

const (
	ImageSmall ImageSize = iota
	ImageMedium
	ImageLarge
)

var imageSizeNames = map[string]ImageSize{
	"small":  ImageSmall,
	"medium": ImageMedium,
	"large":  ImageLarge,
}

// String returns the size label used in the API's size attribute.
func (s ImageSize) String() string {
	switch s {
	case ImageSmall:
		return "small"
	case ImageMedium:
		return "medium"
	case ImageLarge:
		return "large"
	default:
		return "unknown"
	}
}

// ParseImageSize maps a size label to an ImageSize.
func ParseImageSize(label string) (ImageSize, error) {
	size, ok := imageSizeNames[label]
	if !ok {
		return 0, argumentError("image size", "must be small, medium or large, got "+label)
	}
	return size, nil
}

// Images holds one artwork URL per size.
type Images struct {
	Small  string
	Medium string
	Large  string
}

// URL returns the artwork URL for a size label. Unknown labels are an
// argument error; a known size with no artwork returns "".
func (im Images) URL(label string) (string, error) {
	size, err := ParseImageSize(label)
	if err != nil {
		return "", err
	}
	return im.Get(size), nil
}

// Get returns the artwork URL for size.
func (im Images) Get(size ImageSize) string {
	switch size {
	case ImageSmall:
		return im.Small
	case ImageMedium:
		return im.Medium
	case ImageLarge:
		return im.Large
	default:
		return ""
	}
}

// set stores url in the slot named by label; other labels are ignored.
func (im *Images) set(label, url string) {
	switch label {
	case "small":
		im.Small = url
	case "medium":
		im.Medium = url
	case "large":
		im.Large = url
	}
}
