package geodesic_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGeodesic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Geodesic Suite")
}
