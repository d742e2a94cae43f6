package kv

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/util/retry"
)

// ConfigMap stores each slot as one data key of a single ConfigMap.
// ConfigMaps are capped at 1MiB, which bounds the collection size.
type ConfigMap struct {
	clientset kubernetes.Interface
	namespace string
	name      string
}

// NewConfigMap creates a ConfigMap storage; the ConfigMap itself is created on first Set
func NewConfigMap(clientset kubernetes.Interface, namespace, name string) (*ConfigMap, error) {
	if namespace == "" || name == "" {
		return nil, fmt.Errorf("configmap namespace and name are required")
	}
	return &ConfigMap{
		clientset: clientset,
		namespace: namespace,
		name:      name,
	}, nil
}

func (c *ConfigMap) Get(ctx context.Context, key string) ([]byte, error) {
	cm, err := c.clientset.CoreV1().ConfigMaps(c.namespace).Get(ctx, c.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get configmap %s/%s: %w", c.namespace, c.name, err)
	}

	value, ok := cm.Data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

// retryable covers update conflicts and losing the race to create the ConfigMap
func retryable(err error) bool {
	return apierrors.IsConflict(err) || apierrors.IsAlreadyExists(err)
}

// Set retries on update conflicts so a concurrent edit of other keys is not
// lost. When another writer creates the ConfigMap first, Set updates it instead.
func (c *ConfigMap) Set(ctx context.Context, key string, value []byte) error {
	configMaps := c.clientset.CoreV1().ConfigMaps(c.namespace)

	err := retry.OnError(retry.DefaultRetry, retryable, func() error {
		cm, err := configMaps.Get(ctx, c.name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			_, err = configMaps.Create(ctx, &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      c.name,
					Namespace: c.namespace,
					Labels:    map[string]string{"app.kubernetes.io/managed-by": "feedbox"},
				},
				Data: map[string]string{key: string(value)},
			}, metav1.CreateOptions{})
			return err
		}
		if err != nil {
			return err
		}

		if cm.Data == nil {
			cm.Data = make(map[string]string)
		}
		cm.Data[key] = string(value)
		_, err = configMaps.Update(ctx, cm, metav1.UpdateOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write key %s to configmap %s/%s: %w", key, c.namespace, c.name, err)
	}
	return nil
}

func (c *ConfigMap) Remove(ctx context.Context, key string) error {
	configMaps := c.clientset.CoreV1().ConfigMaps(c.namespace)

	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		cm, err := configMaps.Get(ctx, c.name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, ok := cm.Data[key]; !ok {
			return nil
		}

		delete(cm.Data, key)
		_, err = configMaps.Update(ctx, cm, metav1.UpdateOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove key %s from configmap %s/%s: %w", key, c.namespace, c.name, err)
	}
	return nil
}

func (c *ConfigMap) Name() string {
	return "configmap"
}
