package cluster

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/armadaproject/loadgen/internal/loadgen/configuration"
)

type KubernetesClientProvider interface {
	Client() kubernetes.Interface
}

type ConfigKubernetesClientProvider struct {
	client kubernetes.Interface
}

// NewKubernetesClientProvider builds a client from the in-cluster service account, falling back to the default
// kubeconfig loading rules when not running in a pod.
func NewKubernetesClientProvider(kubernetesConfig configuration.KubernetesConfiguration) (*ConfigKubernetesClientProvider, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading kubernetes client configuration")
	}

	config.QPS = kubernetesConfig.QPS
	config.Burst = kubernetesConfig.Burst

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &ConfigKubernetesClientProvider{client: client}, nil
}

func (c *ConfigKubernetesClientProvider) Client() kubernetes.Interface {
	return c.client
}

func loadConfig() (*rest.Config, error) {
	config, err := rest.InClusterConfig()
	if err == rest.ErrNotInCluster {
		log.Info("Running with default client configuration")
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		overrides := &clientcmd.ConfigOverrides{}
		return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	}
	log.Info("Running with in cluster client configuration")
	return config, err
}
