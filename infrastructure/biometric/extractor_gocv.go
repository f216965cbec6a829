//go:build gocv

package biometric

import (
	"fmt"
	"image"

	"facegate.io/entities"
	"facegate.io/infrastructure/biometric/types"
	"gocv.io/x/gocv"
)

// GocvExtractor computes the same descriptor as Extractor with OpenCV doing
// the resize, grayscale, Canny and Gabor stages. The Gabor kernel is built
// once and only read afterwards.
type GocvExtractor struct {
	gabor gocv.Mat
}

func NewGocvExtractor() (types.FeatureExtractor, error) {
	kernel := gocv.GetGaborKernel(image.Pt(gaborKernelSize, gaborKernelSize),
		gaborSigma, gaborTheta, gaborLambda, gaborGamma, gaborPsi, gocv.MatTypeCV32F)
	if kernel.Empty() {
		return nil, fmt.Errorf("failed to build gabor kernel")
	}
	return &GocvExtractor{gabor: kernel}, nil
}

func (e *GocvExtractor) Extract(face image.Image) (entities.FaceFeatures, error) {
	if face == nil || face.Bounds().Empty() {
		return entities.FaceFeatures{}, ErrEmptyImage
	}

	mat, err := gocv.ImageToMatRGB(face)
	if err != nil {
		return entities.FaceFeatures{}, fmt.Errorf("failed to convert face to mat: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(CanonicalSize, CanonicalSize), 0, 0, gocv.InterpolationLinear)

	grayMat := gocv.NewMat()
	defer grayMat.Close()
	gocv.CvtColor(resized, &grayMat, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(grayMat, &edges, cannyLowThreshold, cannyHighThreshold)

	filtered := gocv.NewMat()
	defer filtered.Close()
	gocv.Filter2D(grayMat, &filtered, gocv.MatTypeCV8U, e.gabor, image.Pt(-1, -1), 0, gocv.BorderDefault)

	gray, err := matToGray(grayMat)
	if err != nil {
		return entities.FaceFeatures{}, err
	}
	edgeBytes, err := edges.DataPtrUint8()
	if err != nil {
		return entities.FaceFeatures{}, err
	}
	gaborBytes, err := filtered.DataPtrUint8()
	if err != nil {
		return entities.FaceFeatures{}, err
	}

	mean, std := intensityStats(gray)
	return entities.FaceFeatures{
		Histogram:          intensityHistogram(gray),
		MeanIntensity:      mean,
		StdIntensity:       std,
		FaceArea:           resized.Rows() * resized.Cols(),
		EdgeDensity:        meanOf(edgeBytes),
		SymmetryScore:      symmetryScore(gray),
		LocalBinaryPattern: localBinaryPattern(gray),
		GaborFeatures:      entities.GaborResponse{meanOf(gaborBytes)},
		FacialLandmarks:    mean,
		TextureFeatures:    cooccurrence(gray),
	}, nil
}

func (e *GocvExtractor) Close() error {
	return e.gabor.Close()
}

// matToGray copies a single channel 8-bit mat into an image.Gray.
func matToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("expected an 8-bit single channel mat, got %v", m.Type())
	}
	data, err := m.DataPtrUint8()
	if err != nil {
		return nil, err
	}
	rows, cols := m.Rows(), m.Cols()
	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	copy(gray.Pix, data[:min(len(data), rows*cols)])
	return gray, nil
}
