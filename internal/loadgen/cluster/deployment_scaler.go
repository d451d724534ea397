package cluster

import (
	"context"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/pointer"
)

// KubernetesDeploymentScaler sets the replica count of a deployment by reading it and writing it back with only
// spec.replicas changed.
type KubernetesDeploymentScaler struct {
	clientProvider KubernetesClientProvider
}

func NewKubernetesDeploymentScaler(clientProvider KubernetesClientProvider) *KubernetesDeploymentScaler {
	return &KubernetesDeploymentScaler{clientProvider: clientProvider}
}

func (s *KubernetesDeploymentScaler) Scale(ctx context.Context, namespace, name string, replicas int32) error {
	deployments := s.clientProvider.Client().AppsV1().Deployments(namespace)
	deployment, err := deployments.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return errors.Wrapf(err, "getting deployment %s/%s", namespace, name)
	}
	deployment.Spec.Replicas = pointer.Int32(replicas)
	if _, err := deployments.Update(ctx, deployment, metav1.UpdateOptions{}); err != nil {
		return errors.Wrapf(err, "updating deployment %s/%s", namespace, name)
	}
	return nil
}
