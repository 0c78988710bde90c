package amqp_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAMQP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AMQP Suite")
}
