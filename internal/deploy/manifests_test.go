package deploy

import (
	"strings"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

func TestObjects_Dev(t *testing.T) {
	objects, err := Objects(Options{Environment: "dev"})
	if err != nil {
		t.Fatalf("Objects error: %v", err)
	}
	if len(objects) != 4 {
		t.Fatalf("expected 4 objects for dev, got %d", len(objects))
	}
	cm := objects[0].(*corev1.ConfigMap)
	if cm.Data["HOA_PORT"] != "5000" || cm.Data["HOA_SESSION_STORE"] != "memory" {
		t.Errorf("unexpected dev config: %v", cm.Data)
	}
	dep := objects[2].(*appsv1.Deployment)
	c := dep.Spec.Template.Spec.Containers[0]
	if c.Ports[0].ContainerPort != 5000 {
		t.Errorf("container port = %d, want 5000", c.Ports[0].ContainerPort)
	}
	if c.LivenessProbe.HTTPGet.Path != "/probe" {
		t.Errorf("liveness path = %q", c.LivenessProbe.HTTPGet.Path)
	}
	if *dep.Spec.Replicas != 1 || dep.Spec.Strategy.Type != appsv1.RecreateDeploymentStrategyType {
		t.Errorf("expected a single recreated replica")
	}
}

func TestObjects_ProdAddsRedis(t *testing.T) {
	objects, err := Objects(Options{Environment: "prod", Namespace: "hoa"})
	if err != nil {
		t.Fatalf("Objects error: %v", err)
	}
	if len(objects) != 6 {
		t.Fatalf("expected 6 objects for prod, got %d", len(objects))
	}
	cm := objects[0].(*corev1.ConfigMap)
	if cm.Data["HOA_PORT"] != "8000" {
		t.Errorf("prod port = %s, want 8000", cm.Data["HOA_PORT"])
	}
	if cm.Data["HOA_SESSION_REDIS_ADDR"] != "hoasite-prod-redis:6379" {
		t.Errorf("redis addr = %q", cm.Data["HOA_SESSION_REDIS_ADDR"])
	}
	if cm.Namespace != "hoa" {
		t.Errorf("namespace = %q", cm.Namespace)
	}
}

func TestObjects_Invalid(t *testing.T) {
	if _, err := Objects(Options{Environment: "staging"}); err == nil {
		t.Error("expected error for unknown environment")
	}
	if _, err := Objects(Options{StorageSize: "lots"}); err == nil {
		t.Error("expected error for invalid storage size")
	}
}

func TestManifests_YAMLRoundTrip(t *testing.T) {
	out, err := Manifests(Options{Environment: "prod"})
	if err != nil {
		t.Fatalf("Manifests error: %v", err)
	}
	docs := strings.Split(string(out), "---\n")
	if len(docs) != 6 {
		t.Fatalf("expected 6 documents, got %d", len(docs))
	}
	var dep appsv1.Deployment
	if err := yaml.Unmarshal([]byte(docs[2]), &dep); err != nil {
		t.Fatalf("unmarshal deployment: %v", err)
	}
	if dep.Kind != "Deployment" || dep.Name != "hoasite-prod" {
		t.Errorf("unexpected deployment %s/%s", dep.Kind, dep.Name)
	}
	if got := dep.Spec.Template.Spec.Containers[0].Ports[0].ContainerPort; got != 8000 {
		t.Errorf("container port = %d, want 8000", got)
	}
}
