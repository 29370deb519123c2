package services

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
)

const (
	cloudinaryHost = "res.cloudinary.com"

	// ThumbnailTransformation renders cart modal thumbnails.
	ThumbnailTransformation = "w_60,h_60,c_fill,q_auto,f_auto"
)

// transformation parameter keys that may prefix a public ID in a delivery
// URL, e.g. /upload/w_100,c_fill/v123/x.jpg
var transformationKeys = map[string]bool{
	"a": true, "ac": true, "af": true, "ar": true, "b": true, "bo": true,
	"br": true, "c": true, "co": true, "cs": true, "d": true, "dl": true,
	"dn": true, "dpr": true, "du": true, "e": true, "eo": true, "f": true,
	"fl": true, "fn": true, "fps": true, "g": true, "h": true, "ki": true,
	"l": true, "o": true, "p": true, "pg": true, "q": true, "r": true,
	"so": true, "sp": true, "t": true, "u": true, "vc": true, "vs": true,
	"w": true, "x": true, "y": true, "z": true,
}

// ImageResolver rewrites Cloudinary delivery URLs of this account into
// square thumbnails for the cart modal. Every other image reference is
// returned unchanged. A nil *ImageResolver returns references unchanged.
type ImageResolver struct {
	cld *cloudinary.Cloudinary
}

// NewImageResolver reads the account from a cloudinary:// URL.
func NewImageResolver(cloudinaryURL string) (*ImageResolver, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	if cld.Config.Cloud.CloudName == "" {
		return nil, fmt.Errorf("cloudinary URL has no cloud name")
	}
	cld.Config.URL.Secure = true

	return &ImageResolver{cld: cld}, nil
}

func (r *ImageResolver) CloudName() string {
	if r == nil {
		return ""
	}
	return r.cld.Config.Cloud.CloudName
}

// Thumbnail implements ui.ImageResolver.
func (r *ImageResolver) Thumbnail(ref string) string {
	if r == nil || ref == "" {
		return ref
	}

	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Host != cloudinaryHost {
		return ref
	}
	if !strings.HasPrefix(u.Path, "/"+r.CloudName()+"/") {
		return ref
	}

	publicID := PublicID(u.Path)
	if publicID == "" {
		return ref
	}
	thumb, err := r.ImageURL(publicID, ThumbnailTransformation)
	if err != nil {
		return ref
	}
	return thumb
}

// ImageURL builds the delivery URL of publicID with an optional
// transformation.
func (r *ImageResolver) ImageURL(publicID, transformation string) (string, error) {
	img, err := r.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build image %s: %w", publicID, err)
	}
	img.Transformation = transformation
	return img.String()
}

// PublicID returns the public ID from the path of a Cloudinary delivery URL,
// without transformations, version or extension:
// /acct/image/upload/w_100,c_fill/v123/folder/file.jpg yields folder/file.
func PublicID(urlPath string) string {
	parts := strings.Split(strings.Trim(urlPath, "/"), "/")

	start := -1
	for i, part := range parts {
		if part == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(parts) {
		return ""
	}
	rest := parts[start:]

	// everything up to a version segment is transformation
	for i, part := range rest {
		if isVersion(part) && i+1 < len(rest) {
			rest = rest[i+1:]
			break
		}
	}
	for len(rest) > 1 && isTransformation(rest[0]) {
		rest = rest[1:]
	}

	id := strings.Join(rest, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isTransformation(segment string) bool {
	for _, component := range strings.Split(segment, ",") {
		key, _, ok := strings.Cut(component, "_")
		if !ok || !transformationKeys[key] {
			return false
		}
	}
	return true
}
