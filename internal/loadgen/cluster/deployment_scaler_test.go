package cluster

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	clienttesting "k8s.io/client-go/testing"
	"k8s.io/utils/pointer"
)

type fakeClientProvider struct {
	client kubernetes.Interface
}

func (p *fakeClientProvider) Client() kubernetes.Interface {
	return p.client
}

func newDeployment(replicas int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "querier",
			Namespace: "monitoring",
			Labels:    map[string]string{"app": "querier"},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: pointer.Int32(replicas),
		},
	}
}

func updatedReplicas(client *fake.Clientset) []int32 {
	var replicas []int32
	for _, action := range client.Actions() {
		if update, ok := action.(clienttesting.UpdateAction); ok && action.GetResource().Resource == "deployments" {
			replicas = append(replicas, *update.GetObject().(*appsv1.Deployment).Spec.Replicas)
		}
	}
	return replicas
}

func TestKubernetesDeploymentScaler_Scale(t *testing.T) {
	client := fake.NewSimpleClientset(newDeployment(3))
	scaler := NewKubernetesDeploymentScaler(&fakeClientProvider{client: client})

	require.NoError(t, scaler.Scale(context.Background(), "monitoring", "querier", 1))
	require.NoError(t, scaler.Scale(context.Background(), "monitoring", "querier", 5))

	assert.Equal(t, []int32{1, 5}, updatedReplicas(client))
	deployment, err := client.AppsV1().Deployments("monitoring").Get(context.Background(), "querier", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(5), *deployment.Spec.Replicas)
	assert.Equal(t, map[string]string{"app": "querier"}, deployment.Labels)
}

func TestKubernetesDeploymentScaler_MissingDeployment(t *testing.T) {
	client := fake.NewSimpleClientset()
	scaler := NewKubernetesDeploymentScaler(&fakeClientProvider{client: client})

	err := scaler.Scale(context.Background(), "monitoring", "querier", 1)

	assert.Error(t, err)
	assert.Empty(t, updatedReplicas(client))
}

func TestKubernetesDeploymentScaler_UpdateFailure(t *testing.T) {
	client := fake.NewSimpleClientset(newDeployment(3))
	client.PrependReactor("update", "deployments", func(action clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, fmt.Errorf("conflict")
	})
	scaler := NewKubernetesDeploymentScaler(&fakeClientProvider{client: client})

	err := scaler.Scale(context.Background(), "monitoring", "querier", 1)

	assert.ErrorContains(t, err, "conflict")
}
